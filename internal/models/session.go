package models

import (
	"time"

	"gorm.io/gorm"
)

// ChatSession stores durable conversation state for WhatsApp dialogues
type ChatSession struct {
	gorm.Model

	Phone       string    `json:"phone" gorm:"uniqueIndex"`
	Flow        string    `json:"flow"`
	Step        string    `json:"step"`
	PatientName string    `json:"patient_name"`
	Context     string    `json:"context"` // JSON object of collected flow values
	ExpiresAt   time.Time `json:"expires_at"`
}
