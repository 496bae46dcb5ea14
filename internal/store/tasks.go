package store

import (
	"errors"

	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrUnknownAssignee = errors.New("assigned user does not exist")
)

// CreateTask inserts a task. A non-nil assignee must reference an existing
// user.
func CreateTask(gdb *gorm.DB, task *models.Task) error {
	if task.AssignedToID != nil {
		if err := checkAssignee(gdb, *task.AssignedToID); err != nil {
			return err
		}
	}

	return gdb.Create(task).Error
}

// GetTask loads a task together with its project, which handlers need for
// access checks.
func GetTask(gdb *gorm.DB, id uint) (*models.Task, error) {
	var task models.Task

	if err := gdb.Preload("Project").First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return &task, nil
}

func ListTasks(gdb *gorm.DB, projectID uint) ([]models.Task, error) {
	var tasks []models.Task

	err := gdb.Where("project_id = ?", projectID).Order("id").Find(&tasks).Error

	return tasks, err
}

func UpdateTask(gdb *gorm.DB, task *models.Task, updates map[string]interface{}) error {
	if assignee, ok := updates["assigned_to_id"]; ok {
		if id, ok := assignee.(uint); ok {
			if err := checkAssignee(gdb, id); err != nil {
				return err
			}
		}
	}

	return gdb.Model(task).Updates(updates).Error
}

// DeleteTask removes the task and its comments in one transaction.
func DeleteTask(gdb *gorm.DB, taskID uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("task_id = ?", taskID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.Task{}, taskID).Error
	})
}

func checkAssignee(gdb *gorm.DB, userID uint) error {
	var user models.User

	if err := gdb.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownAssignee
		}
		return err
	}

	return nil
}
