package models

import "gorm.io/gorm"

// Feedback stores a patient's rating and optional comments
type Feedback struct {
	gorm.Model

	Phone       string `json:"phone" gorm:"index"`
	PatientName string `json:"patient_name"`
	Rating      int    `json:"rating"` // 1-5
	Text        string `json:"text"`
}
