package services

import (
	"errors"
	"fmt"

	"trainsurvey/models"

	"gorm.io/gorm"
)

type ScenarioService struct {
	db *gorm.DB
}

func NewScenarioService(db *gorm.DB) *ScenarioService {
	return &ScenarioService{db: db}
}

type CreateTrainConfigurationRequest struct {
	Name   string            `json:"name"`
	Title  string            `json:"title"`
	Height int               `json:"height" binding:"required,min=1"`
	Width  int               `json:"width" binding:"required,min=1"`
	Tiles  models.TileMatrix `json:"tiles" binding:"required"`
}

type UpdateTrainConfigurationRequest struct {
	Name   *string           `json:"name"`
	Title  *string           `json:"title"`
	Height *int              `json:"height"`
	Width  *int              `json:"width"`
	Tiles  models.TileMatrix `json:"tiles"`
}

// validateTileMatrix enforces that the grid exactly matches the declared
// dimensions and that every tile carries a known type.
func validateTileMatrix(tiles models.TileMatrix, height, width int) error {
	if len(tiles) != height {
		return NewValidationError(fmt.Sprintf("tile matrix has %d rows, expected %d", len(tiles), height))
	}
	for i, row := range tiles {
		if len(row) != width {
			return NewValidationError(fmt.Sprintf("tile row %d has %d columns, expected %d", i, len(row), width))
		}
		for j, tile := range row {
			switch tile.Type {
			case "seat", "floor", "barrier":
			default:
				return NewValidationError(fmt.Sprintf("tile at (%d,%d) has unknown type %q", i, j, tile.Type))
			}
		}
	}
	return nil
}

func (s *ScenarioService) CreateConfiguration(req *CreateTrainConfigurationRequest) (*models.TrainConfiguration, error) {
	if err := validateTileMatrix(req.Tiles, req.Height, req.Width); err != nil {
		return nil, err
	}

	config := models.TrainConfiguration{
		Name:   req.Name,
		Title:  req.Title,
		Height: req.Height,
		Width:  req.Width,
		Tiles:  req.Tiles,
	}
	if err := s.db.Create(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *ScenarioService) GetConfigurations() ([]models.TrainConfiguration, error) {
	var configs []models.TrainConfiguration
	err := s.db.Order("created_at DESC").Find(&configs).Error
	return configs, err
}

func (s *ScenarioService) GetConfigurationByID(configID uint) (*models.TrainConfiguration, error) {
	var config models.TrainConfiguration
	if err := s.db.First(&config, configID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("train configuration not found")
		}
		return nil, err
	}
	return &config, nil
}

// GetRandomConfiguration picks one stored configuration uniformly at random.
func (s *ScenarioService) GetRandomConfiguration() (*models.TrainConfiguration, error) {
	var config models.TrainConfiguration
	if err := s.db.Order("RANDOM()").First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("no train configurations exist")
		}
		return nil, err
	}
	return &config, nil
}

func (s *ScenarioService) UpdateConfiguration(configID uint, req *UpdateTrainConfigurationRequest) (*models.TrainConfiguration, error) {
	config, err := s.GetConfigurationByID(configID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		config.Name = *req.Name
	}
	if req.Title != nil {
		config.Title = *req.Title
	}
	if req.Height != nil {
		config.Height = *req.Height
	}
	if req.Width != nil {
		config.Width = *req.Width
	}
	if req.Tiles != nil {
		config.Tiles = req.Tiles
	}

	if err := validateTileMatrix(config.Tiles, config.Height, config.Width); err != nil {
		return nil, err
	}

	if err := s.db.Save(config).Error; err != nil {
		return nil, err
	}
	return config, nil
}

// DeleteConfiguration removes a configuration unless it is still referenced
// by a group item, a response, or a question attachment. The reference scan
// and the delete run in one transaction.
func (s *ScenarioService) DeleteConfiguration(configID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := getConfiguration(tx, configID); err != nil {
			return err
		}

		referencers := []struct {
			model interface{}
			name  string
		}{
			{&models.ScenarioGroupItem{}, "scenario group items"},
			{&models.UserResponse{}, "user responses"},
			{&models.PostResponseQuestion{}, "attached questions"},
		}
		for _, ref := range referencers {
			var count int64
			if err := tx.Model(ref.model).Where("train_configuration_id = ?", configID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return NewConflictError(fmt.Sprintf("train configuration is still referenced by %s", ref.name))
			}
		}

		return tx.Delete(&models.TrainConfiguration{}, configID).Error
	})
}

func getConfiguration(db *gorm.DB, configID uint) (*models.TrainConfiguration, error) {
	var config models.TrainConfiguration
	if err := db.First(&config, configID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("train configuration not found")
		}
		return nil, err
	}
	return &config, nil
}
