package store

import (
	"errors"

	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

func CreateComment(gdb *gorm.DB, comment *models.Comment) error {
	return gdb.Create(comment).Error
}

// GetComment loads a comment with its task and the task's project, which
// handlers need for access checks.
func GetComment(gdb *gorm.DB, id uint) (*models.Comment, error) {
	var comment models.Comment

	if err := gdb.Preload("Task").Preload("Task.Project").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	return &comment, nil
}

// ListComments returns the task's comments, oldest first. No comments is an
// empty slice, not an error.
func ListComments(gdb *gorm.DB, taskID uint) ([]models.Comment, error) {
	comments := []models.Comment{}

	err := gdb.Where("task_id = ?", taskID).Order("id").Find(&comments).Error

	return comments, err
}

func UpdateComment(gdb *gorm.DB, comment *models.Comment, content string) error {
	return gdb.Model(comment).Update("content", content).Error
}

func DeleteComment(gdb *gorm.DB, commentID uint) error {
	return gdb.Unscoped().Delete(&models.Comment{}, commentID).Error
}
