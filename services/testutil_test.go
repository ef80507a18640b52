package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"trainsurvey/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory database with the full schema. Each test
// gets a uniquely named shared-cache database so the connection pool sees
// one schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.TrainConfiguration{},
		&models.ScenarioGroup{},
		&models.ScenarioGroupEditor{},
		&models.ScenarioGroupItem{},
		&models.Study{},
		&models.Question{},
		&models.QuestionTag{},
		&models.QuestionTagAssignment{},
		&models.PostResponseQuestion{},
		&models.PreStudyQuestion{},
		&models.PostStudyQuestion{},
		&models.UserResponse{},
		&models.QuestionResponse{},
		&models.QuestionResponseTag{},
		&models.PreStudyQuestionResponse{},
		&models.PostStudyQuestionResponse{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// createTestConfiguration stores a height x width grid of unoccupied floor
// tiles with a seat in every even row.
func createTestConfiguration(t *testing.T, db *gorm.DB, height, width int) *models.TrainConfiguration {
	t.Helper()
	config := models.TrainConfiguration{
		Name:   fmt.Sprintf("test-%dx%d", height, width),
		Height: height,
		Width:  width,
		Tiles:  makeTiles(height, width),
	}
	require.NoError(t, db.Create(&config).Error)
	return &config
}

func makeTiles(height, width int) models.TileMatrix {
	tiles := make(models.TileMatrix, height)
	for i := range tiles {
		tiles[i] = make([]models.Tile, width)
		for j := range tiles[i] {
			tileType := "floor"
			if i%2 == 0 {
				tileType = "seat"
			}
			tiles[i][j] = models.Tile{Type: tileType}
		}
	}
	return tiles
}

func createTestQuestion(t *testing.T, db *gorm.DB, text string) *models.Question {
	t.Helper()
	question := models.Question{Text: text, AllowFreeText: true, AllowTags: true}
	require.NoError(t, db.Create(&question).Error)
	return &question
}

func createTestTag(t *testing.T, db *gorm.DB, text string) *models.QuestionTag {
	t.Helper()
	tag := models.QuestionTag{Text: text}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func strptr(s string) *string { return &s }

func intptr(n int) *int { return &n }
