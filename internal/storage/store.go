package storage

import (
	"sync"

	"github.com/rpl-hospital/carebot-backend/internal/models"
)

var (
	storeInstance Store
	storeOnce     sync.Once
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// Patient operations
	CreatePatient(reg *models.PatientRegistration) (*models.Patient, error)
	GetPatientByPhone(phone string) (*models.Patient, error)
	GetAllPatients(limit, offset int) ([]*models.Patient, error)
	RecordVisit(phone string) error

	// Appointment operations
	CreateAppointment(appt *models.Appointment) (*models.Appointment, error)
	GetAppointmentsByPhone(phone string, limit int) ([]*models.Appointment, error)
	GetAppointmentsForDate(date string) ([]*models.Appointment, error)
	GetAllAppointments(limit, offset int) ([]*models.Appointment, error)
	NextTokenNumber(doctorKey, date string) (int, error)

	// Feedback operations
	CreateFeedback(fb *models.Feedback) (*models.Feedback, error)
	GetAllFeedback(limit int) ([]*models.Feedback, error)

	// Lab test operations
	CreateLabTest(test *models.LabTest) (*models.LabTest, error)
	GetLabTests(phone string, limit int) ([]*models.LabTest, error)

	// Medicine reminder operations
	SaveMedicineReminder(rem *models.MedicineReminder) (*models.MedicineReminder, error)
	GetMedicineReminders(phone string) ([]*models.MedicineReminder, error)
	GetActiveReminders() ([]*models.MedicineReminder, error)

	// Session operations
	SaveSession(sess *models.ChatSession) error
	GetSession(phone string) (*models.ChatSession, error)
	DeleteSession(phone string) error

	// Reporting operations (admin dashboard, daily summary)
	LogMessage(phone, body, date string) error
	GetDailyStats(date string) (*models.DailyStats, error)
}
