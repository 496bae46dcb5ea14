package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model

	Content string `gorm:"not null"`
	UserID  uint   `gorm:"not null;index"`
	TaskID  uint   `gorm:"not null;index"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Task Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
