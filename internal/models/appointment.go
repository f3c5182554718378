package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment represents a booked consultation slot
type Appointment struct {
	gorm.Model

	Reference   string `json:"reference" gorm:"uniqueIndex"`
	Phone       string `json:"phone" gorm:"index"`
	PatientName string `json:"patient_name"`
	DoctorKey   string `json:"doctor_key" gorm:"index"`
	DoctorName  string `json:"doctor_name"`
	Department  string `json:"department"`
	Date        string `json:"date" gorm:"index"` // YYYY-MM-DD
	Time        string `json:"time"`
	Token       int    `json:"token"`
	Problem     string `json:"problem"`
	Status      string `json:"status" gorm:"default:scheduled"`
}

// TokenCounter hands out queue tokens per doctor per date. Rows are claimed
// with an atomic increment so two concurrent bookings never share a token.
type TokenCounter struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	DoctorKey string `json:"doctor_key" gorm:"index:idx_token_doctor_date,unique"`
	Date      string `json:"date" gorm:"index:idx_token_doctor_date,unique"` // YYYY-MM-DD
	Next      int    `json:"next"`
}

// Appointment status constants
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"
)

// BeforeCreate hook to auto-generate the reference and normalize data
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Reference == "" {
		a.Reference = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AppointmentStatusScheduled
	}
	a.Phone = strings.TrimSpace(a.Phone)
	return nil
}
