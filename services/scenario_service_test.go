package services

import (
	"testing"

	"trainsurvey/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConfiguration(t *testing.T) {
	db := newTestDB(t)
	svc := NewScenarioService(db)

	config, err := svc.CreateConfiguration(&CreateTrainConfigurationRequest{
		Name:   "car-a",
		Title:  "Car A",
		Height: 2,
		Width:  3,
		Tiles:  makeTiles(2, 3),
	})
	require.NoError(t, err)
	assert.NotZero(t, config.ID)
	assert.Equal(t, 2, config.Height)
	assert.Equal(t, 3, config.Width)
	assert.Len(t, config.Tiles, 2)
}

func TestCreateConfigurationTileShapeMismatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewScenarioService(db)

	tests := []struct {
		name   string
		height int
		width  int
		tiles  models.TileMatrix
	}{
		{"too few rows", 3, 2, makeTiles(2, 2)},
		{"too many rows", 1, 2, makeTiles(2, 2)},
		{"short row", 2, 3, makeTiles(2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateConfiguration(&CreateTrainConfigurationRequest{
				Height: tt.height,
				Width:  tt.width,
				Tiles:  tt.tiles,
			})
			require.Error(t, err)
			assert.IsType(t, &ValidationError{}, err)
		})
	}
}

func TestCreateConfigurationUnknownTileType(t *testing.T) {
	db := newTestDB(t)
	svc := NewScenarioService(db)

	tiles := makeTiles(1, 1)
	tiles[0][0].Type = "window"

	_, err := svc.CreateConfiguration(&CreateTrainConfigurationRequest{
		Height: 1,
		Width:  1,
		Tiles:  tiles,
	})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestGetRandomConfigurationEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewScenarioService(db)

	_, err := svc.GetRandomConfiguration()
	require.Error(t, err)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestGetRandomConfiguration(t *testing.T) {
	db := newTestDB(t)
	svc := NewScenarioService(db)
	created := createTestConfiguration(t, db, 2, 2)

	config, err := svc.GetRandomConfiguration()
	require.NoError(t, err)
	assert.Equal(t, created.ID, config.ID)
}

func TestUpdateConfigurationRevalidatesTiles(t *testing.T) {
	db := newTestDB(t)
	svc := NewScenarioService(db)
	config := createTestConfiguration(t, db, 2, 2)

	// Shrinking the height without replacing the tiles must fail.
	_, err := svc.UpdateConfiguration(config.ID, &UpdateTrainConfigurationRequest{
		Height: intptr(1),
	})
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)

	updated, err := svc.UpdateConfiguration(config.ID, &UpdateTrainConfigurationRequest{
		Height: intptr(1),
		Tiles:  makeTiles(1, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Height)
}

func TestDeleteConfigurationBlockedWhileReferenced(t *testing.T) {
	db := newTestDB(t)
	svc := NewScenarioService(db)
	user := createTestUser(t, db, "owner@example.com")
	config := createTestConfiguration(t, db, 2, 2)

	group := models.ScenarioGroup{Name: "g", CreatedByUserID: user.ID}
	require.NoError(t, db.Create(&group).Error)
	item := models.ScenarioGroupItem{ScenarioGroupID: group.ID, TrainConfigurationID: config.ID, Order: 0}
	require.NoError(t, db.Create(&item).Error)

	err := svc.DeleteConfiguration(config.ID)
	require.Error(t, err)
	assert.IsType(t, &ConflictError{}, err)

	require.NoError(t, db.Delete(&item).Error)
	require.NoError(t, svc.DeleteConfiguration(config.ID))

	_, err = svc.GetConfigurationByID(config.ID)
	assert.IsType(t, &NotFoundError{}, err)
}

func TestDeleteConfigurationNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewScenarioService(db)

	err := svc.DeleteConfiguration(12345)
	require.Error(t, err)
	assert.IsType(t, &NotFoundError{}, err)
}
