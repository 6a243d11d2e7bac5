package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type AccountModel struct {
	ID           string    `gorm:"primaryKey"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (AccountModel) TableName() string { return "accounts" }

type ClassificationModel struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ClassificationModel) TableName() string { return "classifications" }

type VehicleModel struct {
	ID               string `gorm:"primaryKey"`
	ClassificationID string `gorm:"not null;index"`
	Make             string `gorm:"not null"`
	Model            string `gorm:"not null"`
	Year             int    `gorm:"not null"`
	Description      string `gorm:"not null"`
	PhotoKey         string
	Price            float64        `gorm:"not null"`
	Miles            int64          `gorm:"not null"`
	Color            string         `gorm:"not null"`
	Features         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"not null"`
	UpdatedAt        time.Time      `gorm:"not null"`
}

func (VehicleModel) TableName() string { return "inventory" }

type InquiryModel struct {
	ID              string    `gorm:"primaryKey"`
	VehicleID       string    `gorm:"not null;index"`
	AccountID       string    `gorm:"not null;index"`
	Subject         string    `gorm:"not null"`
	Message         string    `gorm:"not null"`
	Status          string    `gorm:"not null;index"`
	CreatedAt       time.Time `gorm:"not null;index"`
	ResponseMessage string
	RespondedAt     *time.Time
	RespondedBy     string
}

func (InquiryModel) TableName() string { return "inquiries" }
