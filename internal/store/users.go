package store

import (
	"errors"

	"github.com/taskhive-dev/taskhive/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

// CreateUser inserts a new account after checking username and email
// uniqueness, so callers get a typed error instead of a driver-specific
// constraint violation.
func CreateUser(gdb *gorm.DB, user *models.User) error {
	var count int64

	if err := gdb.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	if err := gdb.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	return gdb.Create(user).Error
}

func GetUser(gdb *gorm.DB, id uint) (*models.User, error) {
	var user models.User

	if err := gdb.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func GetUserByUsername(gdb *gorm.DB, username string) (*models.User, error) {
	var user models.User

	if err := gdb.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// UsernameTakenByOther reports whether another account already uses the
// username. Used by profile updates.
func UsernameTakenByOther(gdb *gorm.DB, username string, userID uint) (bool, error) {
	var count int64

	err := gdb.Model(&models.User{}).Where("username = ? AND id != ?", username, userID).Count(&count).Error

	return count > 0, err
}

func EmailTakenByOther(gdb *gorm.DB, email string, userID uint) (bool, error) {
	var count int64

	err := gdb.Model(&models.User{}).Where("email = ? AND id != ?", email, userID).Count(&count).Error

	return count > 0, err
}

func UpdateUser(gdb *gorm.DB, user *models.User, updates map[string]interface{}) error {
	return gdb.Model(user).Updates(updates).Error
}

// DeleteUser removes the account and everything hanging off it: every owned
// project (with its full cascade), authored comments, memberships, and the
// user row itself. Tasks assigned to or created by the user survive with the
// reference cleared. The whole cascade is one transaction.
func DeleteUser(gdb *gorm.DB, userID uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var ownedProjectIDs []uint

		if err := tx.Model(&models.Project{}).Where("owner_id = ?", userID).Pluck("id", &ownedProjectIDs).Error; err != nil {
			return err
		}

		for _, projectID := range ownedProjectIDs {
			if err := cascadeDeleteProject(tx, projectID); err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Task{}).Where("assigned_to_id = ?", userID).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("created_by_id = ?", userID).
			Update("created_by_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.User{}, userID).Error
	})
}
