package services

import (
	"testing"

	"trainsurvey/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStudyRequiresGroupAccess(t *testing.T) {
	db, _, owner, editor, stranger, group := newGroupFixture(t)
	svc := NewStudyService(db)

	// Owner and editor can both bind a study to the group.
	ownerStudy, err := svc.CreateStudy(owner.ID, &CreateStudyRequest{
		ScenarioGroupID: group.ID,
		Title:           "rush hour",
		ContactEmail:    "owner@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ownerStudy.CreatedByUserID)

	_, err = svc.CreateStudy(editor.ID, &CreateStudyRequest{
		ScenarioGroupID: group.ID,
		Title:           "editor study",
		ContactEmail:    "editor@example.com",
	})
	require.NoError(t, err)

	_, err = svc.CreateStudy(stranger.ID, &CreateStudyRequest{
		ScenarioGroupID: group.ID,
		Title:           "stolen",
		ContactEmail:    "stranger@example.com",
	})
	assert.IsType(t, &AuthorizationError{}, err)

	_, err = svc.CreateStudy(owner.ID, &CreateStudyRequest{
		ScenarioGroupID: 9999,
		Title:           "ghost",
		ContactEmail:    "owner@example.com",
	})
	assert.IsType(t, &NotFoundError{}, err)
}

func TestStudyOwnershipIsSingleTier(t *testing.T) {
	db, _, owner, editor, _, group := newGroupFixture(t)
	svc := NewStudyService(db)

	study, err := svc.CreateStudy(owner.ID, &CreateStudyRequest{
		ScenarioGroupID: group.ID,
		Title:           "private",
		ContactEmail:    "owner@example.com",
	})
	require.NoError(t, err)

	// Group editors get no rights on the study itself.
	_, err = svc.GetStudyByID(study.ID, editor.ID)
	assert.IsType(t, &AuthorizationError{}, err)

	_, err = svc.UpdateStudy(study.ID, editor.ID, &UpdateStudyRequest{Title: strptr("renamed")})
	assert.IsType(t, &AuthorizationError{}, err)

	err = svc.DeleteStudy(study.ID, editor.ID)
	assert.IsType(t, &AuthorizationError{}, err)

	// Missing study wins over authorization.
	_, err = svc.GetStudyByID(9999, editor.ID)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestAttachStudyQuestionUniqueness(t *testing.T) {
	db, _, owner, _, _, group := newGroupFixture(t)
	svc := NewStudyService(db)

	study, err := svc.CreateStudy(owner.ID, &CreateStudyRequest{
		ScenarioGroupID: group.ID,
		Title:           "s",
		ContactEmail:    "owner@example.com",
	})
	require.NoError(t, err)

	question := createTestQuestion(t, db, "How was it?")

	_, err = svc.AttachPreStudyQuestion(study.ID, owner.ID, &AttachStudyQuestionRequest{
		QuestionID: question.ID,
		Required:   true,
		Order:      0,
	})
	require.NoError(t, err)

	_, err = svc.AttachPreStudyQuestion(study.ID, owner.ID, &AttachStudyQuestionRequest{
		QuestionID: question.ID,
	})
	assert.IsType(t, &ConflictError{}, err)

	// The same question may still attach on the post-study side.
	_, err = svc.AttachPostStudyQuestion(study.ID, owner.ID, &AttachStudyQuestionRequest{
		QuestionID: question.ID,
	})
	require.NoError(t, err)

	_, err = svc.AttachPostStudyQuestion(study.ID, owner.ID, &AttachStudyQuestionRequest{
		QuestionID: 9999,
	})
	assert.IsType(t, &NotFoundError{}, err)
}

func TestDeleteStudyKeepsResponses(t *testing.T) {
	db, _, owner, _, _, group := newGroupFixture(t)
	svc := NewStudyService(db)

	study, err := svc.CreateStudy(owner.ID, &CreateStudyRequest{
		ScenarioGroupID: group.ID,
		Title:           "s",
		ContactEmail:    "owner@example.com",
	})
	require.NoError(t, err)

	question := createTestQuestion(t, db, "q")
	attachment, err := svc.AttachPreStudyQuestion(study.ID, owner.ID, &AttachStudyQuestionRequest{QuestionID: question.ID})
	require.NoError(t, err)

	responseSvc := NewResponseService(db, nil, nil)
	_, err = responseSvc.SubmitPreStudyResponse(&SubmitStudyQuestionResponseRequest{
		QuestionID:    attachment.ID,
		UserSessionID: "sess-1",
		FreeText:      strptr("fine"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStudy(study.ID, owner.ID))

	var attachmentCount, responseCount int64
	require.NoError(t, db.Model(&models.PreStudyQuestion{}).Where("study_id = ?", study.ID).Count(&attachmentCount).Error)
	require.NoError(t, db.Model(&models.PreStudyQuestionResponse{}).Count(&responseCount).Error)
	assert.EqualValues(t, 0, attachmentCount)
	assert.EqualValues(t, 1, responseCount, "collected responses are kept for analysis")
}

func TestGetPublicView(t *testing.T) {
	db, groupSvc, owner, _, _, group := newGroupFixture(t)
	svc := NewStudyService(db)

	configB := createTestConfiguration(t, db, 2, 2)
	configA := createTestConfiguration(t, db, 3, 3)
	_, err := groupSvc.AddItem(group.ID, owner.ID, &AddGroupItemRequest{TrainConfigurationID: configB.ID, Order: 2})
	require.NoError(t, err)
	_, err = groupSvc.AddItem(group.ID, owner.ID, &AddGroupItemRequest{TrainConfigurationID: configA.ID, Order: 1})
	require.NoError(t, err)

	study, err := svc.CreateStudy(owner.ID, &CreateStudyRequest{
		ScenarioGroupID: group.ID,
		Title:           "public study",
		ContactEmail:    "owner@example.com",
	})
	require.NoError(t, err)

	view, err := svc.GetPublicView(study.ID)
	require.NoError(t, err)
	assert.Equal(t, "public study", view.Title)
	require.Len(t, view.Items, 2)
	assert.Equal(t, configA.ID, view.Items[0].TrainConfigurationID, "items come back in order")
	assert.Equal(t, configB.ID, view.Items[1].TrainConfigurationID)

	_, err = svc.GetPublicView(9999)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestGetStudyQuestionsOrdered(t *testing.T) {
	db, _, owner, _, stranger, group := newGroupFixture(t)
	svc := NewStudyService(db)

	study, err := svc.CreateStudy(owner.ID, &CreateStudyRequest{
		ScenarioGroupID: group.ID,
		Title:           "ordered",
		ContactEmail:    "owner@example.com",
	})
	require.NoError(t, err)

	qSecond := createTestQuestion(t, db, "second")
	qFirst := createTestQuestion(t, db, "first")

	_, err = svc.AttachPreStudyQuestion(study.ID, owner.ID, &AttachStudyQuestionRequest{QuestionID: qSecond.ID, Order: 2})
	require.NoError(t, err)
	_, err = svc.AttachPreStudyQuestion(study.ID, owner.ID, &AttachStudyQuestionRequest{QuestionID: qFirst.ID, Order: 1})
	require.NoError(t, err)

	pre, err := svc.GetPreStudyQuestions(study.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, pre, 2)
	assert.Equal(t, qFirst.ID, pre[0].QuestionID)
	assert.Equal(t, qSecond.ID, pre[1].QuestionID)
	assert.Equal(t, "first", pre[0].Question.Text, "questions are preloaded")

	_, err = svc.AttachPostStudyQuestion(study.ID, owner.ID, &AttachStudyQuestionRequest{QuestionID: qSecond.ID, Order: 1})
	require.NoError(t, err)
	_, err = svc.AttachPostStudyQuestion(study.ID, owner.ID, &AttachStudyQuestionRequest{QuestionID: qFirst.ID, Order: 2})
	require.NoError(t, err)

	post, err := svc.GetPostStudyQuestions(study.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, post, 2)
	assert.Equal(t, qSecond.ID, post[0].QuestionID)
	assert.Equal(t, qFirst.ID, post[1].QuestionID)

	_, err = svc.GetPreStudyQuestions(study.ID, stranger.ID)
	assert.IsType(t, &AuthorizationError{}, err)
}
