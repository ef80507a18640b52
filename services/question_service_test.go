package services

import (
	"testing"

	"trainsurvey/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignmentTags(assignments []models.QuestionTagAssignment) []uint {
	ids := make([]uint, len(assignments))
	for i, a := range assignments {
		ids[i] = a.QuestionTagID
	}
	return ids
}

func TestSetQuestionTagsReconciles(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	question := createTestQuestion(t, db, "Why here?")

	tagA := createTestTag(t, db, "A")
	tagB := createTestTag(t, db, "B")
	tagC := createTestTag(t, db, "C")
	tagD := createTestTag(t, db, "D")

	first, err := svc.SetQuestionTags(question.ID, &SetQuestionTagsRequest{
		TagIDs: []uint{tagA.ID, tagB.ID, tagC.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{tagA.ID, tagB.ID, tagC.ID}, assignmentTags(first))

	// B survives with a new order, A and C are removed, D is inserted.
	var bAssignmentID uint
	for _, a := range first {
		if a.QuestionTagID == tagB.ID {
			bAssignmentID = a.ID
		}
	}

	second, err := svc.SetQuestionTags(question.ID, &SetQuestionTagsRequest{
		TagIDs: []uint{tagB.ID, tagD.ID},
	})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, []uint{tagB.ID, tagD.ID}, assignmentTags(second))
	assert.Equal(t, 0, second[0].Order)
	assert.Equal(t, 1, second[1].Order)
	assert.Equal(t, bAssignmentID, second[0].ID, "surviving assignment is updated in place")

	var count int64
	require.NoError(t, db.Model(&models.QuestionTagAssignment{}).
		Where("question_id = ?", question.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count, "no duplicate (question, tag) rows")
}

func TestSetQuestionTagsSkipsUnknownAndDuplicateIDs(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	question := createTestQuestion(t, db, "Why here?")
	tag := createTestTag(t, db, "real")

	assignments, err := svc.SetQuestionTags(question.ID, &SetQuestionTagsRequest{
		TagIDs: []uint{9999, tag.ID, tag.ID, 8888},
	})
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, tag.ID, assignments[0].QuestionTagID)
	assert.Equal(t, 0, assignments[0].Order)
}

func TestSetQuestionTagsEmptyClearsAll(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	question := createTestQuestion(t, db, "Why here?")
	tag := createTestTag(t, db, "gone")

	_, err := svc.SetQuestionTags(question.ID, &SetQuestionTagsRequest{TagIDs: []uint{tag.ID}})
	require.NoError(t, err)

	assignments, err := svc.SetQuestionTags(question.ID, &SetQuestionTagsRequest{TagIDs: []uint{}})
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestCreateTagConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	user := createTestUser(t, db, "owner@example.com")

	_, err := svc.CreateTag(user.ID, &CreateTagRequest{Text: "crowded"})
	require.NoError(t, err)

	_, err = svc.CreateTag(user.ID, &CreateTagRequest{Text: "crowded"})
	assert.IsType(t, &ConflictError{}, err)
}

func TestGetTagLibraryOrdersDefaultsFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)

	require.NoError(t, db.Create(&models.QuestionTag{Text: "zebra"}).Error)
	require.NoError(t, db.Create(&models.QuestionTag{Text: "near door", IsDefault: true}).Error)
	require.NoError(t, db.Create(&models.QuestionTag{Text: "alpha"}).Error)

	tags, err := svc.GetTagLibrary()
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "near door", tags[0].Text)
	assert.Equal(t, "alpha", tags[1].Text)
	assert.Equal(t, "zebra", tags[2].Text)
}

func TestDeleteTagRefcounted(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	question := createTestQuestion(t, db, "q")
	tag := createTestTag(t, db, "stuck")

	_, err := svc.SetQuestionTags(question.ID, &SetQuestionTagsRequest{TagIDs: []uint{tag.ID}})
	require.NoError(t, err)

	err = svc.DeleteTag(tag.ID)
	assert.IsType(t, &ConflictError{}, err)

	_, err = svc.SetQuestionTags(question.ID, &SetQuestionTagsRequest{TagIDs: []uint{}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTag(tag.ID))
}

func TestDeleteDefaultTagForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)

	tag := models.QuestionTag{Text: "system", IsDefault: true}
	require.NoError(t, db.Create(&tag).Error)

	err := svc.DeleteTag(tag.ID)
	assert.IsType(t, &AuthorizationError{}, err)
}

func TestDeleteQuestionRefcounted(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	config := createTestConfiguration(t, db, 2, 2)
	question := createTestQuestion(t, db, "q")

	attachment, err := svc.AttachScenarioQuestion(config.ID, &AttachScenarioQuestionRequest{
		QuestionID: question.ID,
	})
	require.NoError(t, err)

	err = svc.DeleteQuestion(question.ID)
	assert.IsType(t, &ConflictError{}, err)

	require.NoError(t, svc.DetachScenarioQuestion(config.ID, attachment.ID))
	require.NoError(t, svc.DeleteQuestion(question.ID))

	_, err = svc.GetQuestionByID(question.ID)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestAttachScenarioQuestionDuplicateConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	config := createTestConfiguration(t, db, 2, 2)
	question := createTestQuestion(t, db, "q")

	_, err := svc.AttachScenarioQuestion(config.ID, &AttachScenarioQuestionRequest{QuestionID: question.ID})
	require.NoError(t, err)

	_, err = svc.AttachScenarioQuestion(config.ID, &AttachScenarioQuestionRequest{QuestionID: question.ID})
	assert.IsType(t, &ConflictError{}, err)
}

func TestComputeTagStatistics(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	config := createTestConfiguration(t, db, 2, 2)
	question := createTestQuestion(t, db, "q")

	tagX := createTestTag(t, db, "x")
	tagY := createTestTag(t, db, "y")
	tagZ := createTestTag(t, db, "z")
	_, err := svc.SetQuestionTags(question.ID, &SetQuestionTagsRequest{
		TagIDs: []uint{tagX.ID, tagY.ID, tagZ.ID},
	})
	require.NoError(t, err)

	attachment := models.PostResponseQuestion{TrainConfigurationID: config.ID, QuestionID: question.ID}
	require.NoError(t, db.Create(&attachment).Error)

	// Three participants: x picked twice, y and z once each.
	selections := [][]uint{{tagX.ID, tagY.ID}, {tagX.ID}, {tagZ.ID}}
	responseSvc := NewResponseService(db, nil, nil)
	for i, tags := range selections {
		userResponse := models.UserResponse{TrainConfigurationID: config.ID, Row: 0, Col: 0, SelectionType: "seat"}
		require.NoError(t, db.Create(&userResponse).Error)
		_, err := responseSvc.SubmitQuestionResponse(&SubmitQuestionResponseRequest{
			PostResponseQuestionID: attachment.ID,
			UserResponseID:         userResponse.ID,
			SelectedTagIDs:         tags,
		})
		require.NoError(t, err, "selection %d", i)
	}

	stats, err := svc.ComputeTagStatistics(question.ID)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, tagX.ID, stats[0].QuestionTagID)
	assert.Equal(t, 2, stats[0].Count)
	// y and z tie on count; tag id ascending breaks the tie.
	assert.Equal(t, tagY.ID, stats[1].QuestionTagID)
	assert.Equal(t, tagZ.ID, stats[2].QuestionTagID)
}

func TestGetScenarioQuestionsOrdered(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestionService(db)
	config := createTestConfiguration(t, db, 2, 2)

	qLast := createTestQuestion(t, db, "last")
	qFirst := createTestQuestion(t, db, "first")
	qMiddle := createTestQuestion(t, db, "middle")

	_, err := svc.AttachScenarioQuestion(config.ID, &AttachScenarioQuestionRequest{QuestionID: qLast.ID, Order: 3})
	require.NoError(t, err)
	_, err = svc.AttachScenarioQuestion(config.ID, &AttachScenarioQuestionRequest{QuestionID: qFirst.ID, Order: 1})
	require.NoError(t, err)
	_, err = svc.AttachScenarioQuestion(config.ID, &AttachScenarioQuestionRequest{QuestionID: qMiddle.ID, Order: 2})
	require.NoError(t, err)

	attachments, err := svc.GetScenarioQuestions(config.ID)
	require.NoError(t, err)
	require.Len(t, attachments, 3)
	assert.Equal(t, qFirst.ID, attachments[0].QuestionID)
	assert.Equal(t, qMiddle.ID, attachments[1].QuestionID)
	assert.Equal(t, qLast.ID, attachments[2].QuestionID)

	_, err = svc.GetScenarioQuestions(9999)
	assert.IsType(t, &NotFoundError{}, err)
}
