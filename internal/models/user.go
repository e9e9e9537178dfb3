package model

import "time"

// User is an account able to sign in and own tasks. PasswordHash never leaves
// the repository layer; public output goes through dto.UserSummary.
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"`
	PhoneNumber  *string   `gorm:"size:10;uniqueIndex"`
	FirstName    string    `gorm:"size:150;not null"`
	LastName     string    `gorm:"size:150;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	IsStaff      bool      `gorm:"not null"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`

	Tasks []Task `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
