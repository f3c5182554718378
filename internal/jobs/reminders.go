package jobs

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/rpl-hospital/carebot-backend/internal/services"
	"github.com/rpl-hospital/carebot-backend/internal/storage"
)

// Scheduler runs the recurring WhatsApp jobs: morning appointment reminders,
// medicine nudges, and the evening staff summary. It checks the clock once a
// minute and fires each job at most once per day.
type Scheduler struct {
	store    storage.Store
	notifier services.Notifier
	staff    *services.StaffNotifier

	mu        sync.Mutex
	isRunning bool
	stop      chan struct{}
	lastRun   map[string]string // job name -> date it last fired
}

func NewScheduler(store storage.Store, notifier services.Notifier, staff *services.StaffNotifier) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		staff:    staff,
		lastRun:  make(map[string]string),
	}
}

// Start launches the scheduler loop. Safe to call once.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case now := <-ticker.C:
				s.tick(now)
			}
		}
	}()
	log.Println("🚀 Reminder scheduler started")
}

// Stop halts the scheduler loop
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stop)
}

func (s *Scheduler) tick(now time.Time) {
	switch {
	case now.Hour() == 8:
		s.runOnce("appointments", now, s.sendAppointmentReminders)
		s.runOnce("medicine_morning", now, func(t time.Time) { s.sendMedicineReminders("सुबह") })
	case now.Hour() == 20:
		s.runOnce("medicine_evening", now, func(t time.Time) { s.sendMedicineReminders("रात") })
	case now.Hour() == 21:
		s.runOnce("daily_summary", now, s.sendDailySummary)
	}
}

func (s *Scheduler) runOnce(name string, now time.Time, job func(time.Time)) {
	date := now.Format("2006-01-02")
	s.mu.Lock()
	already := s.lastRun[name] == date
	if !already {
		s.lastRun[name] = date
	}
	s.mu.Unlock()
	if already {
		return
	}
	job(now)
}

// sendAppointmentReminders pings everyone booked for today
func (s *Scheduler) sendAppointmentReminders(now time.Time) {
	date := now.Format("2006-01-02")
	appts, err := s.store.GetAppointmentsForDate(date)
	if err != nil {
		log.Printf("❌ reminder job: appointments for %s: %v", date, err)
		return
	}

	sent := 0
	for _, a := range appts {
		msg := fmt.Sprintf(`🔔 *अपॉइंटमेंट रिमाइंडर*

नमस्ते %s! आज आपकी अपॉइंटमेंट है:

👨‍⚕️ %s
🕐 %s
🎫 टोकन नंबर: %d

कृपया समय से 10 मिनट पहले पहुंचें। 🙏`, a.PatientName, a.DoctorName, a.Time, a.Token)

		if err := s.notifier.SendText(a.Phone, msg); err != nil {
			log.Printf("⚠️ appointment reminder to %s failed: %v", a.Phone, err)
			continue
		}
		sent++
	}
	log.Printf("✅ Sent %d/%d appointment reminders for %s", sent, len(appts), date)
}

// sendMedicineReminders nudges patients whose reminder time mentions the
// given part of day, or has no recognizable part of day at all.
func (s *Scheduler) sendMedicineReminders(partOfDay string) {
	reminders, err := s.store.GetActiveReminders()
	if err != nil {
		log.Printf("❌ reminder job: active reminders: %v", err)
		return
	}

	for _, r := range reminders {
		if !matchesPartOfDay(r.ReminderTime, partOfDay) {
			continue
		}
		msg := fmt.Sprintf("💊 *दवा का समय!*\n\n%s लेना न भूलें (%s)। 🙏", r.MedicineName, r.ReminderTime)
		if err := s.notifier.SendText(r.Phone, msg); err != nil {
			log.Printf("⚠️ medicine reminder to %s failed: %v", r.Phone, err)
		}
	}
}

func matchesPartOfDay(reminderTime, partOfDay string) bool {
	known := []string{"सुबह", "दोपहर", "शाम", "रात", "morning", "afternoon", "evening", "night"}
	for _, k := range known {
		if strings.Contains(reminderTime, k) {
			return strings.Contains(reminderTime, partOfDay)
		}
	}
	// No recognizable part of day: remind in the morning run only
	return partOfDay == "सुबह"
}

// sendDailySummary sends the day's counters to the staff number
func (s *Scheduler) sendDailySummary(now time.Time) {
	date := now.Format("2006-01-02")
	stats, err := s.store.GetDailyStats(date)
	if err != nil {
		log.Printf("❌ summary job: stats for %s: %v", date, err)
		return
	}
	s.staff.SendDailySummary(stats)
	log.Printf("✅ Daily summary sent for %s", date)
}
