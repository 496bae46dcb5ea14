package store

import (
	"errors"
	"fmt"

	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrUnknownMember   = errors.New("member user does not exist")
)

// MemberAssignment is a validated (user, role) pair for membership writes.
type MemberAssignment struct {
	UserID uint
	Role   string
}

// CreateProject inserts the project and its initial member list in one
// transaction. Any member referencing a nonexistent user aborts the whole
// create, leaving nothing behind.
func CreateProject(gdb *gorm.DB, project *models.Project, members []MemberAssignment) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		return insertMembers(tx, project.ID, members)
	})
}

func GetProject(gdb *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project

	err := gdb.Preload("Owner").Preload("Members").Preload("Members.User").First(&project, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	return &project, nil
}

// ListProjectsForUser returns the projects the user owns or is a member of.
func ListProjectsForUser(gdb *gorm.DB, userID uint) ([]models.Project, error) {
	memberOf := gdb.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)

	var projects []models.Project

	err := gdb.Preload("Owner").Preload("Members").Preload("Members.User").
		Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Find(&projects).Error

	return projects, err
}

// UpdateProject applies the field updates and, when replaceMembers is set,
// atomically swaps the entire membership set for the given one. A failure
// resolving any member rolls the transaction back, keeping the original set.
func UpdateProject(gdb *gorm.DB, project *models.Project, updates map[string]interface{}, members []MemberAssignment, replaceMembers bool) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(project).Updates(updates).Error; err != nil {
				return err
			}
		}

		if !replaceMembers {
			return nil
		}

		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return insertMembers(tx, project.ID, members)
	})
}

func DeleteProject(gdb *gorm.DB, projectID uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		return cascadeDeleteProject(tx, projectID)
	})
}

// cascadeDeleteProject removes a project and everything scoped to it, leaf
// first: comments on its tasks, the tasks, the memberships, then the project.
func cascadeDeleteProject(tx *gorm.DB, projectID uint) error {
	taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", projectID)

	if err := tx.Unscoped().Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}

	if err := tx.Unscoped().Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
		return err
	}

	if err := tx.Unscoped().Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error; err != nil {
		return err
	}

	return tx.Unscoped().Delete(&models.Project{}, projectID).Error
}

func insertMembers(tx *gorm.DB, projectID uint, members []MemberAssignment) error {
	for _, member := range members {
		var user models.User

		if err := tx.First(&user, member.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrUnknownMember, member.UserID)
			}
			return err
		}

		membership := models.ProjectMember{
			ProjectID: projectID,
			UserID:    member.UserID,
			Role:      member.Role,
		}

		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
	}

	return nil
}
