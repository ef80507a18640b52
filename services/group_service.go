package services

import (
	"errors"
	"strings"

	"trainsurvey/models"

	"gorm.io/gorm"
)

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

type CreateScenarioGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateScenarioGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AddGroupItemRequest struct {
	TrainConfigurationID uint `json:"train_configuration_id" binding:"required"`
	Order                int  `json:"order"`
}

type UpdateGroupItemRequest struct {
	TrainConfigurationID *uint `json:"train_configuration_id"`
	Order                *int  `json:"order"`
}

type AddEditorRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *GroupService) CreateGroup(userID uint, req *CreateScenarioGroupRequest) (*models.ScenarioGroup, error) {
	group := models.ScenarioGroup{
		Name:            req.Name,
		Description:     req.Description,
		CreatedByUserID: userID,
	}
	if err := s.db.Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetUserGroups returns groups the user created plus groups shared with them
// as an editor.
func (s *GroupService) GetUserGroups(userID uint) ([]models.ScenarioGroup, error) {
	var groups []models.ScenarioGroup
	editorGroups := s.db.Model(&models.ScenarioGroupEditor{}).
		Select("scenario_group_id").
		Where("user_id = ?", userID)
	err := s.db.
		Where(s.db.Where("created_by_user_id = ?", userID).Or("id IN (?)", editorGroups)).
		Order("created_at DESC").
		Find(&groups).Error
	return groups, err
}

func (s *GroupService) GetGroupByID(groupID uint, userID uint) (*models.ScenarioGroup, error) {
	if _, err := requireGroupRole(s.db, groupID, userID, RoleEditor); err != nil {
		return nil, err
	}

	var group models.ScenarioGroup
	err := s.db.
		Preload("Items", byOrder).
		Preload("Items.TrainConfiguration").
		Preload("Editors.User").
		First(&group, groupID).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *GroupService) UpdateGroup(groupID uint, userID uint, req *UpdateScenarioGroupRequest) (*models.ScenarioGroup, error) {
	group, err := requireGroupRole(s.db, groupID, userID, RoleEditor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}

	if err := s.db.Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group together with its items and editor links.
// Referenced train configurations are untouched. Creator only.
func (s *GroupService) DeleteGroup(groupID uint, userID uint) error {
	if _, err := requireGroupRole(s.db, groupID, userID, RoleOwner); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scenario_group_id = ?", groupID).
			Delete(&models.ScenarioGroupItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("scenario_group_id = ?", groupID).
			Delete(&models.ScenarioGroupEditor{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ScenarioGroup{}, groupID).Error
	})
}

func (s *GroupService) AddItem(groupID uint, userID uint, req *AddGroupItemRequest) (*models.ScenarioGroupItem, error) {
	if _, err := requireGroupRole(s.db, groupID, userID, RoleEditor); err != nil {
		return nil, err
	}
	if _, err := getConfiguration(s.db, req.TrainConfigurationID); err != nil {
		return nil, err
	}

	item := models.ScenarioGroupItem{
		ScenarioGroupID:      groupID,
		TrainConfigurationID: req.TrainConfigurationID,
		Order:                req.Order,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *GroupService) UpdateItem(groupID, itemID, userID uint, req *UpdateGroupItemRequest) (*models.ScenarioGroupItem, error) {
	if _, err := requireGroupRole(s.db, groupID, userID, RoleEditor); err != nil {
		return nil, err
	}

	var item models.ScenarioGroupItem
	if err := s.db.Where("id = ? AND scenario_group_id = ?", itemID, groupID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("scenario group item not found")
		}
		return nil, err
	}

	if req.TrainConfigurationID != nil {
		if _, err := getConfiguration(s.db, *req.TrainConfigurationID); err != nil {
			return nil, err
		}
		item.TrainConfigurationID = *req.TrainConfigurationID
	}
	if req.Order != nil {
		item.Order = *req.Order
	}

	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *GroupService) RemoveItem(groupID, itemID, userID uint) error {
	if _, err := requireGroupRole(s.db, groupID, userID, RoleEditor); err != nil {
		return err
	}

	result := s.db.Where("id = ? AND scenario_group_id = ?", itemID, groupID).
		Delete(&models.ScenarioGroupItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("scenario group item not found")
	}
	return nil
}

func (s *GroupService) GetEditors(groupID uint, userID uint) ([]models.ScenarioGroupEditor, error) {
	if _, err := requireGroupRole(s.db, groupID, userID, RoleEditor); err != nil {
		return nil, err
	}

	var editors []models.ScenarioGroupEditor
	err := s.db.Where("scenario_group_id = ?", groupID).
		Preload("User").
		Find(&editors).Error
	return editors, err
}

// AddEditor grants mutation rights to another user by email. Creator only;
// the creator themselves cannot be added.
func (s *GroupService) AddEditor(groupID uint, userID uint, req *AddEditorRequest) (*models.ScenarioGroupEditor, error) {
	group, err := requireGroupRole(s.db, groupID, userID, RoleOwner)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var editorUser models.User
	if err := s.db.Where("email = ?", email).First(&editorUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("no user with this email")
		}
		return nil, err
	}

	if editorUser.ID == group.CreatedByUserID {
		return nil, NewValidationError("the group creator cannot be added as an editor")
	}

	var count int64
	if err := s.db.Model(&models.ScenarioGroupEditor{}).
		Where("scenario_group_id = ? AND user_id = ?", groupID, editorUser.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, NewConflictError("user is already an editor of this group")
	}

	editor := models.ScenarioGroupEditor{
		ScenarioGroupID: groupID,
		UserID:          editorUser.ID,
	}
	if err := s.db.Create(&editor).Error; err != nil {
		return nil, err
	}
	editor.User = editorUser
	return &editor, nil
}

func (s *GroupService) RemoveEditor(groupID, editorUserID, userID uint) error {
	if _, err := requireGroupRole(s.db, groupID, userID, RoleOwner); err != nil {
		return err
	}

	result := s.db.Where("scenario_group_id = ? AND user_id = ?", groupID, editorUserID).
		Delete(&models.ScenarioGroupEditor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("editor not found on this group")
	}
	return nil
}
