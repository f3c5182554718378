package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpl-hospital/carebot-backend/internal/models"
)

// DatabaseStore persists everything in PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Patient operations

func (s *DatabaseStore) CreatePatient(reg *models.PatientRegistration) (*models.Patient, error) {
	var existing models.Patient
	err := s.db.Where("phone = ?", reg.Phone).First(&existing).Error
	if err == nil {
		now := time.Now()
		updates := map[string]interface{}{
			"last_visit":   now,
			"total_visits": gorm.Expr("total_visits + 1"),
		}
		if reg.Name != "" {
			updates["name"] = reg.Name
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	patient := &models.Patient{
		Phone:       reg.Phone,
		Name:        reg.Name,
		Age:         reg.Age,
		Gender:      reg.Gender,
		Address:     reg.Address,
		FirstVisit:  now,
		LastVisit:   &now,
		TotalVisits: 1,
	}
	if err := s.db.Create(patient).Error; err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *DatabaseStore) GetPatientByPhone(phone string) (*models.Patient, error) {
	var patient models.Patient
	if err := s.db.Where("phone = ?", phone).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (s *DatabaseStore) GetAllPatients(limit, offset int) ([]*models.Patient, error) {
	var patients []*models.Patient
	q := s.db.Order("last_visit DESC NULLS LAST").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *DatabaseStore) RecordVisit(phone string) error {
	return s.db.Model(&models.Patient{}).
		Where("phone = ?", phone).
		Updates(map[string]interface{}{
			"last_visit":   time.Now(),
			"total_visits": gorm.Expr("total_visits + 1"),
		}).Error
}

// Appointment operations

func (s *DatabaseStore) CreateAppointment(appt *models.Appointment) (*models.Appointment, error) {
	if err := s.db.Create(appt).Error; err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *DatabaseStore) GetAppointmentsByPhone(phone string, limit int) ([]*models.Appointment, error) {
	var appts []*models.Appointment
	q := s.db.Where("phone = ?", phone).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *DatabaseStore) GetAppointmentsForDate(date string) ([]*models.Appointment, error) {
	var appts []*models.Appointment
	err := s.db.Where("date = ? AND status <> ?", date, models.AppointmentStatusCancelled).
		Order("time ASC").Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *DatabaseStore) GetAllAppointments(limit, offset int) ([]*models.Appointment, error) {
	var appts []*models.Appointment
	q := s.db.Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// NextTokenNumber reserves the next token for the doctor and date through a
// counter row claimed with an atomic increment, so concurrent bookings from
// different patients never draw the same number.
func (s *DatabaseStore) NextTokenNumber(doctorKey, date string) (int, error) {
	// Seed the counter row if this is the first booking for the pair; the
	// unique index makes a concurrent seed a harmless no-op.
	seed := models.TokenCounter{DoctorKey: doctorKey, Date: date, Next: 1000}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}

	var counter models.TokenCounter
	res := s.db.Model(&counter).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "next"}}}).
		Where("doctor_key = ? AND date = ?", doctorKey, date).
		Update("next", gorm.Expr("next + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("token counter missing for %s %s", doctorKey, date)
	}
	// RETURNING yields the post-increment value
	return counter.Next - 1, nil
}

// Feedback operations

func (s *DatabaseStore) CreateFeedback(fb *models.Feedback) (*models.Feedback, error) {
	if err := s.db.Create(fb).Error; err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *DatabaseStore) GetAllFeedback(limit int) ([]*models.Feedback, error) {
	var feedback []*models.Feedback
	q := s.db.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

// Lab test operations

func (s *DatabaseStore) CreateLabTest(test *models.LabTest) (*models.LabTest, error) {
	if err := s.db.Create(test).Error; err != nil {
		return nil, err
	}
	return test, nil
}

func (s *DatabaseStore) GetLabTests(phone string, limit int) ([]*models.LabTest, error) {
	var tests []*models.LabTest
	q := s.db.Where("phone = ?", phone).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

// Medicine reminder operations

func (s *DatabaseStore) SaveMedicineReminder(rem *models.MedicineReminder) (*models.MedicineReminder, error) {
	var existing models.MedicineReminder
	err := s.db.Where("phone = ? AND medicine_name = ?", rem.Phone, rem.MedicineName).
		First(&existing).Error
	if err == nil {
		existing.ReminderTime = rem.ReminderTime
		existing.Active = true
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rem.Active = true
	if err := s.db.Create(rem).Error; err != nil {
		return nil, err
	}
	return rem, nil
}

func (s *DatabaseStore) GetMedicineReminders(phone string) ([]*models.MedicineReminder, error) {
	var reminders []*models.MedicineReminder
	err := s.db.Where("phone = ? AND active = ?", phone, true).Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (s *DatabaseStore) GetActiveReminders() ([]*models.MedicineReminder, error) {
	var reminders []*models.MedicineReminder
	if err := s.db.Where("active = ?", true).Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// Session operations

func (s *DatabaseStore) SaveSession(sess *models.ChatSession) error {
	var existing models.ChatSession
	err := s.db.Where("phone = ?", sess.Phone).First(&existing).Error
	if err == nil {
		existing.Flow = sess.Flow
		existing.Step = sess.Step
		existing.PatientName = sess.PatientName
		existing.Context = sess.Context
		existing.ExpiresAt = sess.ExpiresAt
		return s.db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.Create(sess).Error
}

func (s *DatabaseStore) GetSession(phone string) (*models.ChatSession, error) {
	var sess models.ChatSession
	if err := s.db.Where("phone = ?", phone).First(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *DatabaseStore) DeleteSession(phone string) error {
	return s.db.Unscoped().Where("phone = ?", phone).Delete(&models.ChatSession{}).Error
}

// Reporting operations

func (s *DatabaseStore) LogMessage(phone, body, date string) error {
	return s.db.Create(&models.MessageLog{Phone: phone, Body: body, Date: date}).Error
}

func (s *DatabaseStore) GetDailyStats(date string) (*models.DailyStats, error) {
	stats := &models.DailyStats{Date: date}

	dayStart := date + " 00:00:00"
	dayEnd := date + " 23:59:59"

	if err := s.db.Model(&models.Appointment{}).
		Where("created_at BETWEEN ? AND ?", dayStart, dayEnd).
		Count(&stats.Appointments).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.LabTest{}).
		Where("created_at BETWEEN ? AND ?", dayStart, dayEnd).
		Count(&stats.LabTests).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Patient{}).
		Where("first_visit BETWEEN ? AND ?", dayStart, dayEnd).
		Count(&stats.NewPatients).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Feedback{}).
		Where("created_at BETWEEN ? AND ?", dayStart, dayEnd).
		Count(&stats.Feedback).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.MessageLog{}).
		Where("date = ?", date).
		Count(&stats.Messages).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
