package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpl-hospital/carebot-backend/internal/models"
)

// MemoryStore holds all data in memory for testing and local development
type MemoryStore struct {
	patients     map[string]*models.Patient // keyed by phone
	appointments []*models.Appointment
	tokens       map[string]int // next token per doctorKey+date, guarded by apptMu
	feedback     []*models.Feedback
	labTests     []*models.LabTest
	reminders    map[string]*models.MedicineReminder // keyed by phone+medicine
	sessions     map[string]*models.ChatSession      // keyed by phone
	messageLog   []*models.MessageLog

	// Mutexes for thread safety
	patientMu  sync.RWMutex
	apptMu     sync.RWMutex
	feedbackMu sync.RWMutex
	labMu      sync.RWMutex
	reminderMu sync.RWMutex
	sessionMu  sync.RWMutex
	logMu      sync.RWMutex

	patientCounter uint
	apptCounter    uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		patients:  make(map[string]*models.Patient),
		tokens:    make(map[string]int),
		reminders: make(map[string]*models.MedicineReminder),
		sessions:  make(map[string]*models.ChatSession),
	}
}

// Patient operations

func (m *MemoryStore) CreatePatient(reg *models.PatientRegistration) (*models.Patient, error) {
	m.patientMu.Lock()
	defer m.patientMu.Unlock()

	if existing, ok := m.patients[reg.Phone]; ok {
		now := time.Now()
		existing.LastVisit = &now
		existing.TotalVisits++
		return existing, nil
	}

	m.patientCounter++
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
	patient.ID = m.patientCounter
	patient.CreatedAt = now

	m.patients[reg.Phone] = patient
	return patient, nil
}

func (m *MemoryStore) GetPatientByPhone(phone string) (*models.Patient, error) {
	m.patientMu.RLock()
	defer m.patientMu.RUnlock()

	patient, exists := m.patients[phone]
	if !exists {
		return nil, fmt.Errorf("patient not found")
	}
	return patient, nil
}

func (m *MemoryStore) GetAllPatients(limit, offset int) ([]*models.Patient, error) {
	m.patientMu.RLock()
	defer m.patientMu.RUnlock()

	var patients []*models.Patient
	for _, p := range m.patients {
		patients = append(patients, p)
	}
	sort.Slice(patients, func(i, j int) bool {
		return patients[i].CreatedAt.After(patients[j].CreatedAt)
	})
	return paginate(patients, limit, offset), nil
}

func (m *MemoryStore) RecordVisit(phone string) error {
	m.patientMu.Lock()
	defer m.patientMu.Unlock()

	patient, exists := m.patients[phone]
	if !exists {
		return fmt.Errorf("patient not found")
	}
	now := time.Now()
	patient.LastVisit = &now
	patient.TotalVisits++
	return nil
}

// Appointment operations

func (m *MemoryStore) CreateAppointment(appt *models.Appointment) (*models.Appointment, error) {
	m.apptMu.Lock()
	defer m.apptMu.Unlock()

	m.apptCounter++
	appt.ID = m.apptCounter
	appt.CreatedAt = time.Now()
	if appt.Reference == "" {
		appt.Reference = uuid.NewString()
	}
	if appt.Status == "" {
		appt.Status = models.AppointmentStatusScheduled
	}

	m.appointments = append(m.appointments, appt)
	return appt, nil
}

func (m *MemoryStore) GetAppointmentsByPhone(phone string, limit int) ([]*models.Appointment, error) {
	m.apptMu.RLock()
	defer m.apptMu.RUnlock()

	var results []*models.Appointment
	for i := len(m.appointments) - 1; i >= 0; i-- {
		if m.appointments[i].Phone == phone {
			results = append(results, m.appointments[i])
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

func (m *MemoryStore) GetAppointmentsForDate(date string) ([]*models.Appointment, error) {
	m.apptMu.RLock()
	defer m.apptMu.RUnlock()

	var results []*models.Appointment
	for _, a := range m.appointments {
		if a.Date == date && a.Status != models.AppointmentStatusCancelled {
			results = append(results, a)
		}
	}
	return results, nil
}

func (m *MemoryStore) GetAllAppointments(limit, offset int) ([]*models.Appointment, error) {
	m.apptMu.RLock()
	defer m.apptMu.RUnlock()

	reversed := make([]*models.Appointment, len(m.appointments))
	for i, a := range m.appointments {
		reversed[len(m.appointments)-1-i] = a
	}
	return paginate(reversed, limit, offset), nil
}

// NextTokenNumber reserves the next token for the doctor and date. Each call
// claims a number, so concurrent bookings never share one even though the
// appointment row is only inserted later.
func (m *MemoryStore) NextTokenNumber(doctorKey, date string) (int, error) {
	m.apptMu.Lock()
	defer m.apptMu.Unlock()

	key := doctorKey + "|" + date
	next, ok := m.tokens[key]
	if !ok {
		count := 0
		for _, a := range m.appointments {
			if a.DoctorKey == doctorKey && a.Date == date {
				count++
			}
		}
		next = 1000 + count
	}
	m.tokens[key] = next + 1
	return next, nil
}

// Feedback operations

func (m *MemoryStore) CreateFeedback(fb *models.Feedback) (*models.Feedback, error) {
	m.feedbackMu.Lock()
	defer m.feedbackMu.Unlock()

	fb.ID = uint(len(m.feedback) + 1)
	fb.CreatedAt = time.Now()
	m.feedback = append(m.feedback, fb)
	return fb, nil
}

func (m *MemoryStore) GetAllFeedback(limit int) ([]*models.Feedback, error) {
	m.feedbackMu.RLock()
	defer m.feedbackMu.RUnlock()

	var results []*models.Feedback
	for i := len(m.feedback) - 1; i >= 0; i-- {
		results = append(results, m.feedback[i])
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Lab test operations

func (m *MemoryStore) CreateLabTest(test *models.LabTest) (*models.LabTest, error) {
	m.labMu.Lock()
	defer m.labMu.Unlock()

	test.ID = uint(len(m.labTests) + 1)
	test.CreatedAt = time.Now()
	if test.Status == "" {
		test.Status = models.LabTestStatusBooked
	}
	m.labTests = append(m.labTests, test)
	return test, nil
}

func (m *MemoryStore) GetLabTests(phone string, limit int) ([]*models.LabTest, error) {
	m.labMu.RLock()
	defer m.labMu.RUnlock()

	var results []*models.LabTest
	for i := len(m.labTests) - 1; i >= 0; i-- {
		if m.labTests[i].Phone == phone {
			results = append(results, m.labTests[i])
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// Medicine reminder operations

func (m *MemoryStore) SaveMedicineReminder(rem *models.MedicineReminder) (*models.MedicineReminder, error) {
	m.reminderMu.Lock()
	defer m.reminderMu.Unlock()

	key := rem.Phone + "|" + rem.MedicineName
	if existing, ok := m.reminders[key]; ok {
		existing.ReminderTime = rem.ReminderTime
		existing.Active = true
		return existing, nil
	}

	rem.ID = uint(len(m.reminders) + 1)
	rem.CreatedAt = time.Now()
	rem.Active = true
	m.reminders[key] = rem
	return rem, nil
}

func (m *MemoryStore) GetMedicineReminders(phone string) ([]*models.MedicineReminder, error) {
	m.reminderMu.RLock()
	defer m.reminderMu.RUnlock()

	var results []*models.MedicineReminder
	for _, r := range m.reminders {
		if r.Phone == phone && r.Active {
			results = append(results, r)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *MemoryStore) GetActiveReminders() ([]*models.MedicineReminder, error) {
	m.reminderMu.RLock()
	defer m.reminderMu.RUnlock()

	var results []*models.MedicineReminder
	for _, r := range m.reminders {
		if r.Active {
			results = append(results, r)
		}
	}
	return results, nil
}

// Session operations

func (m *MemoryStore) SaveSession(sess *models.ChatSession) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	if existing, ok := m.sessions[sess.Phone]; ok {
		existing.Flow = sess.Flow
		existing.Step = sess.Step
		existing.PatientName = sess.PatientName
		existing.Context = sess.Context
		existing.ExpiresAt = sess.ExpiresAt
		return nil
	}

	stored := *sess
	stored.ID = uint(len(m.sessions) + 1)
	stored.CreatedAt = time.Now()
	m.sessions[sess.Phone] = &stored
	return nil
}

func (m *MemoryStore) GetSession(phone string) (*models.ChatSession, error) {
	m.sessionMu.RLock()
	defer m.sessionMu.RUnlock()

	sess, exists := m.sessions[phone]
	if !exists {
		return nil, fmt.Errorf("session not found")
	}
	copied := *sess
	return &copied, nil
}

func (m *MemoryStore) DeleteSession(phone string) error {
	m.sessionMu.Lock()
	defer m.sessionMu.Unlock()

	delete(m.sessions, phone)
	return nil
}

// Reporting operations

func (m *MemoryStore) LogMessage(phone, body, date string) error {
	m.logMu.Lock()
	defer m.logMu.Unlock()

	m.messageLog = append(m.messageLog, &models.MessageLog{
		ID:    uint(len(m.messageLog) + 1),
		Phone: phone,
		Body:  body,
		Date:  date,
	})
	return nil
}

func (m *MemoryStore) GetDailyStats(date string) (*models.DailyStats, error) {
	stats := &models.DailyStats{Date: date}

	m.apptMu.RLock()
	for _, a := range m.appointments {
		if a.CreatedAt.Format("2006-01-02") == date {
			stats.Appointments++
		}
	}
	m.apptMu.RUnlock()

	m.labMu.RLock()
	for _, t := range m.labTests {
		if t.CreatedAt.Format("2006-01-02") == date {
			stats.LabTests++
		}
	}
	m.labMu.RUnlock()

	m.patientMu.RLock()
	for _, p := range m.patients {
		if p.FirstVisit.Format("2006-01-02") == date {
			stats.NewPatients++
		}
	}
	m.patientMu.RUnlock()

	m.feedbackMu.RLock()
	for _, f := range m.feedback {
		if f.CreatedAt.Format("2006-01-02") == date {
			stats.Feedback++
		}
	}
	m.feedbackMu.RUnlock()

	m.logMu.RLock()
	for _, l := range m.messageLog {
		if l.Date == date {
			stats.Messages++
		}
	}
	m.logMu.RUnlock()

	return stats, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
