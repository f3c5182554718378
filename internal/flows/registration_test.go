package flows

import (
	"strings"
	"testing"

	"github.com/rpl-hospital/carebot-backend/internal/services"
)

func TestRegistrationEndToEnd(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876522001"

	bot.text(phone, "hi")
	bot.text(phone, "6")
	bot.text(phone, "रमेश कुमार")
	bot.text(phone, "42")
	bot.text(phone, "1")
	bot.text(phone, "बांसी रोड, डुमरियागंज")

	patient, err := bot.store.GetPatientByPhone(phone)
	if err != nil {
		t.Fatalf("GetPatientByPhone: %v", err)
	}
	if patient.Name != "रमेश कुमार" || patient.Age != 42 || patient.Gender != "पुरुष" {
		t.Fatalf("unexpected patient record: %+v", patient)
	}

	// The collected name survives the reset and is used in later greetings
	sess := bot.sessions.Get(phone)
	if sess.Name != "रमेश कुमार" {
		t.Fatalf("expected name kept on session, got %q", sess.Name)
	}
	if sess.Flow != services.DefaultFlow {
		t.Fatalf("expected session back at menu, got %q", sess.Flow)
	}
}

func TestRegistrationRejectsBadAge(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876522002"

	bot.text(phone, "hi")
	bot.text(phone, "6")
	bot.text(phone, "सीता देवी")

	for _, bad := range []string{"abc", "0", "121", "-5"} {
		bot.text(phone, bad)
		sess := bot.sessions.Get(phone)
		if sess.Step != stepGetAge {
			t.Fatalf("age %q accepted, session moved to %q", bad, sess.Step)
		}
	}

	bot.text(phone, "35")
	sess := bot.sessions.Get(phone)
	if sess.Step != stepGetGender {
		t.Fatalf("valid age not accepted, session at %q", sess.Step)
	}
}

func TestFeedbackFlow(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876522003"

	bot.text(phone, "hi")
	bot.text(phone, "7")
	bot.text(phone, "9") // out of range
	sess := bot.sessions.Get(phone)
	if sess.Step != stepGetRating {
		t.Fatalf("rating 9 accepted, session at %q", sess.Step)
	}

	bot.text(phone, "4")
	bot.text(phone, "बहुत अच्छी सेवा")

	entries, err := bot.store.GetAllFeedback(10)
	if err != nil {
		t.Fatalf("GetAllFeedback: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 feedback entry, got %d", len(entries))
	}
	if entries[0].Rating != 4 || entries[0].Text != "बहुत अच्छी सेवा" {
		t.Fatalf("unexpected feedback: %+v", entries[0])
	}

	// Staff should hear about the feedback
	if alert := bot.notifier.lastTo(bot.cfg.StaffNumber); alert == "" {
		t.Fatal("expected a staff notification for new feedback")
	}
}

func TestFeedbackSkipComment(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876522004"

	bot.text(phone, "hi")
	bot.text(phone, "7")
	bot.text(phone, "5")
	bot.text(phone, "skip")

	entries, err := bot.store.GetAllFeedback(10)
	if err != nil {
		t.Fatalf("GetAllFeedback: %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "" {
		t.Fatalf("expected empty comment on skip, got %+v", entries)
	}
}

func TestPrescriptionReminderFlow(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876522005"

	bot.text(phone, "hi")
	bot.text(phone, "3")

	reply := bot.notifier.lastTo(phone)
	if !strings.Contains(reply, "रिमाइंडर") {
		t.Fatalf("expected reminder options, got %q", reply)
	}

	bot.text(phone, "add")
	bot.text(phone, "Metformin 500")
	bot.text(phone, "सुबह 8 बजे")

	reminders, err := bot.store.GetMedicineReminders(phone)
	if err != nil {
		t.Fatalf("GetMedicineReminders: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(reminders))
	}
	if reminders[0].MedicineName != "metformin 500" || reminders[0].ReminderTime != "सुबह 8 बजे" {
		t.Fatalf("unexpected reminder: %+v", reminders[0])
	}
}
