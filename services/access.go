package services

import (
	"errors"

	"trainsurvey/models"

	"gorm.io/gorm"
)

// Role is a caller's standing toward a shared resource.
type Role int

const (
	RoleNone Role = iota
	RoleEditor
	RoleOwner
)

// GroupRole resolves the caller's role on a scenario group. NotFound is
// returned before any authorization decision is made.
func GroupRole(db *gorm.DB, groupID uint, userID uint) (Role, *models.ScenarioGroup, error) {
	var group models.ScenarioGroup
	if err := db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, nil, NewNotFoundError("scenario group not found")
		}
		return RoleNone, nil, err
	}

	if group.CreatedByUserID == userID {
		return RoleOwner, &group, nil
	}

	var count int64
	if err := db.Model(&models.ScenarioGroupEditor{}).
		Where("scenario_group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return RoleNone, nil, err
	}
	if count > 0 {
		return RoleEditor, &group, nil
	}

	return RoleNone, &group, nil
}

// requireGroupRole loads the group and rejects callers below the minimum role.
func requireGroupRole(db *gorm.DB, groupID uint, userID uint, minimum Role) (*models.ScenarioGroup, error) {
	role, group, err := GroupRole(db, groupID, userID)
	if err != nil {
		return nil, err
	}
	if role < minimum {
		if minimum == RoleOwner && role == RoleEditor {
			return nil, NewAuthorizationError("only the group creator may perform this action")
		}
		return nil, NewAuthorizationError("you do not have access to this scenario group")
	}
	return group, nil
}
