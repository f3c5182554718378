package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient represents a registered patient
type Patient struct {
	gorm.Model

	Phone       string     `json:"phone" gorm:"uniqueIndex"` // WhatsApp number - unique
	Name        string     `json:"name"`
	Age         int        `json:"age"`
	Gender      string     `json:"gender"`
	Address     string     `json:"address"`
	FirstVisit  time.Time  `json:"first_visit"`
	LastVisit   *time.Time `json:"last_visit"`
	TotalVisits int        `json:"total_visits" gorm:"default:1"`
}

// PatientRegistration carries the data collected by the registration flow
type PatientRegistration struct {
	Phone   string `json:"phone" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
}
