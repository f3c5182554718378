package models

import "gorm.io/gorm"

// LabTest tracks a lab order and its processing status
type LabTest struct {
	gorm.Model

	Phone    string `json:"phone" gorm:"index"`
	TestName string `json:"test_name"`
	TestDate string `json:"test_date"` // YYYY-MM-DD
	Status   string `json:"status" gorm:"default:booked"`
}

// LabTest status constants
const (
	LabTestStatusBooked     = "booked"
	LabTestStatusProcessing = "processing"
	LabTestStatusReady      = "ready"
	LabTestStatusDelivered  = "delivered"
)

// StatusEmoji maps a lab test status to the marker shown in chat replies
func (lt *LabTest) StatusEmoji() string {
	switch lt.Status {
	case LabTestStatusBooked:
		return "📝"
	case LabTestStatusProcessing:
		return "⏳"
	case LabTestStatusReady:
		return "✅"
	case LabTestStatusDelivered:
		return "📧"
	default:
		return "📋"
	}
}
