package models

import "gorm.io/gorm"

// MedicineReminder is a recurring medicine prompt a patient asked for
type MedicineReminder struct {
	gorm.Model

	Phone        string `json:"phone" gorm:"index:idx_reminder_phone_medicine,unique"`
	PatientName  string `json:"patient_name"`
	MedicineName string `json:"medicine_name" gorm:"index:idx_reminder_phone_medicine,unique"`
	ReminderTime string `json:"reminder_time"` // free text, e.g. "सुबह 8 बजे"
	Active       bool   `json:"active" gorm:"default:true"`
}
