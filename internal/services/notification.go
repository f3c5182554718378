package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rpl-hospital/carebot-backend/internal/models"
)

// StaffNotifier pushes alerts to the hospital's staff WhatsApp number
type StaffNotifier struct {
	notifier    Notifier
	staffNumber string
}

// NewStaffNotifier creates a staff notifier. An empty staff number disables
// alerts (logged, never an error).
func NewStaffNotifier(notifier Notifier, staffNumber string) *StaffNotifier {
	return &StaffNotifier{
		notifier:    notifier,
		staffNumber: staffNumber,
	}
}

func (n *StaffNotifier) notifyStaff(message string) {
	if n.staffNumber == "" {
		log.Println("⚠️  Staff notification number not configured")
		return
	}
	if err := n.notifier.SendText(n.staffNumber, message); err != nil {
		log.Printf("❌ Staff notification failed: %v", err)
	}
}

// NotifyNewAppointment alerts staff about a fresh booking
func (n *StaffNotifier) NotifyNewAppointment(appt *models.Appointment) {
	problem := appt.Problem
	if problem == "" {
		problem = "N/A"
	}
	message := fmt.Sprintf("📅 *नई अपॉइंटमेंट*\n\n"+
		"👤 मरीज: %s\n"+
		"📞 फोन: %s\n"+
		"🏥 डॉक्टर: %s\n"+
		"📅 तारीख: %s\n"+
		"⏰ समय: %s\n"+
		"🎫 टोकन: %d\n"+
		"📝 समस्या: %s",
		appt.PatientName, appt.Phone, appt.DoctorName, appt.Date, appt.Time, appt.Token, problem)

	n.notifyStaff(message)
}

// NotifyEmergency alerts staff about an emergency message
func (n *StaffNotifier) NotifyEmergency(phone, name, message string) {
	alert := fmt.Sprintf("🚨 *आपातकालीन सूचना* 🚨\n\n"+
		"👤 मरीज: %s\n"+
		"📞 फोन: %s\n"+
		"📝 संदेश: %s\n\n"+
		"कृपया तुरंत संपर्क करें!",
		name, phone, message)

	n.notifyStaff(alert)
}

// NotifyNewPatient alerts staff about a completed registration
func (n *StaffNotifier) NotifyNewPatient(phone, name string) {
	message := fmt.Sprintf("👤 *नया मरीज पंजीकृत*\n\n"+
		"नाम: %s\n"+
		"फोन: %s\n"+
		"समय: %s",
		name, phone, time.Now().Format("02/01/2006 3:04 PM"))

	n.notifyStaff(message)
}

// NotifyFeedback forwards a patient's rating and comments to staff
func (n *StaffNotifier) NotifyFeedback(phone, name string, rating int, feedback string) {
	if feedback == "" {
		feedback = "कोई टिप्पणी नहीं"
	}
	stars := strings.Repeat("⭐", rating)
	message := fmt.Sprintf("⭐ *नया फीडबैक*\n\n"+
		"👤 मरीज: %s\n"+
		"📞 फोन: %s\n"+
		"रेटिंग: %s (%d/5)\n"+
		"📝 फीडबैक: %s",
		name, phone, stars, rating, feedback)

	n.notifyStaff(message)
}

// SendDailySummary pushes the end-of-day activity digest to staff
func (n *StaffNotifier) SendDailySummary(stats *models.DailyStats) {
	message := fmt.Sprintf("📊 *दैनिक सारांश*\n\n"+
		"📅 अपॉइंटमेंट: %d\n"+
		"🔬 लैब टेस्ट: %d\n"+
		"👥 नए मरीज: %d\n"+
		"⭐ फीडबैक: %d\n"+
		"💬 कुल संदेश: %d\n\n"+
		"तारीख: %s",
		stats.Appointments, stats.LabTests, stats.NewPatients, stats.Feedback, stats.Messages, stats.Date)

	n.notifyStaff(message)
}
