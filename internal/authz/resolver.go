package authz

import (
	"errors"

	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

// RoleFor resolves the caller's standing on a project: their membership role
// (RoleNone if they have no membership row) and whether they own the project.
func RoleFor(gdb *gorm.DB, userID uint, project *models.Project) (Role, bool, error) {
	isOwner := project.OwnerID == userID

	var membership models.ProjectMember

	err := gdb.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, isOwner, nil
		}
		return RoleNone, isOwner, err
	}

	return Role(membership.Role), isOwner, nil
}
