package flows

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/services"
)

const (
	stepAskProblem   = "ask_problem"
	stepSelectDoctor = "select_doctor"
	stepSelectDate   = "select_date"
	stepSelectTime   = "select_time"

	maxVisibleSlots = 10
)

var firstNumber = regexp.MustCompile(`\d+`)

// AppointmentFlow walks the patient from a problem description to a confirmed
// booking: problem, doctor, date, time, then a token number. Every invalid
// answer re-prompts at the same step without touching the collected context.
type AppointmentFlow struct {
	deps Deps
}

func NewAppointmentFlow(deps Deps) *AppointmentFlow {
	return &AppointmentFlow{deps: deps}
}

func (f *AppointmentFlow) Handle(ctx context.Context, input string, sess *services.Session) Result {
	switch sess.Step {
	case stepAskProblem:
		return f.suggestDoctor(ctx, input, sess)
	case stepSelectDoctor:
		return f.selectDoctor(input, sess)
	case stepSelectDate:
		return f.selectDate(input, sess)
	case stepSelectTime:
		return f.confirmBooking(input, sess)
	default:
		return f.askProblem(sess)
	}
}

func (f *AppointmentFlow) askProblem(sess *services.Session) Result {
	greeting := "ठीक है!"
	if sess.Name != "" {
		greeting = fmt.Sprintf("ठीक है %s!", sess.Name)
	}
	sess.Step = stepAskProblem
	return Result{
		Reply:    Text(greeting + "\n\nआपको क्या समस्या है? कृपया थोड़ा बताएं। 🩺\n\n(जैसे: बुखार, पेट दर्द, दांत में दर्द...)"),
		NewState: sess,
	}
}

// suggestDoctor records the problem and shows the doctor list, with an
// advisory suggestion line when the assistant is confident enough.
func (f *AppointmentFlow) suggestDoctor(ctx context.Context, input string, sess *services.Session) Result {
	sess.Context["problem"] = input

	var b strings.Builder
	b.WriteString("धन्यवाद! 🙏\n\n")

	suggestion, err := f.deps.Assistant.SuggestDoctor(ctx, input, models.Catalog())
	if err == nil && suggestion.Confidence >= services.SuggestionConfidenceThreshold {
		if doc, ok := models.DoctorByKey(suggestion.DoctorKey); ok {
			fmt.Fprintf(&b, "💡 आपकी समस्या के लिए *%s* (%s) सही रहेंगे।\n", doc.Name, doc.Specialty)
			if suggestion.Reason != "" {
				fmt.Fprintf(&b, "कारण: %s\n", suggestion.Reason)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("*हमारे डॉक्टर:*\n\n")
	for i, d := range models.Catalog() {
		fmt.Fprintf(&b, "%d️⃣ %s\n   %s | %s\n\n", i+1, d.Name, d.Specialty, d.Availability.RuleText())
	}
	b.WriteString("किस डॉक्टर से मिलना चाहेंगे? नंबर या नाम भेजें।")

	sess.Step = stepSelectDoctor
	return Result{Reply: Text(b.String()), NewState: sess}
}

func (f *AppointmentFlow) selectDoctor(input string, sess *services.Session) Result {
	doctor, ok := parseDoctorSelection(input)
	if !ok {
		return Result{
			Reply:    Text(fmt.Sprintf("माफ़ कीजिए, समझ नहीं आया। 🙏\n\nकृपया 1 से %d तक का नंबर भेजें या डॉक्टर का नाम लिखें।", len(models.Catalog()))),
			NewState: sess,
		}
	}

	sess.Context["doctor"] = doctor.Key
	sess.Step = stepSelectDate

	return Result{
		Reply: Text(fmt.Sprintf(`आपने चुना: *%s*
%s | %s

किस तारीख को आना चाहेंगे? 📅

• 'आज' या 'कल' लिखें
• या तारीख भेजें (जैसे 15)`, doctor.Name, doctor.Specialty, doctor.Availability.RuleText())),
		NewState: sess,
	}
}

func (f *AppointmentFlow) selectDate(input string, sess *services.Session) Result {
	doctor, ok := models.DoctorByKey(sess.Context["doctor"])
	if !ok {
		return f.askProblem(sess)
	}
	date := parseDate(input, time.Now())

	if !doctor.Availability.Allows(date) {
		return Result{
			Reply: Text(fmt.Sprintf("%s %s। ⚠️\n\n%s को वे नहीं बैठते। कृपया कोई और तारीख चुनें।",
				doctor.Name, doctor.Availability.RuleText(), formatDateHindi(date))),
			NewState: sess,
		}
	}

	sess.Context["date"] = date.Format("2006-01-02")
	sess.Step = stepSelectTime

	slots := visibleSlots(doctor, f.deps.Config.SlotWidth)
	var b strings.Builder
	fmt.Fprintf(&b, "तारीख: *%s* ✅\n\nकौन सा समय ठीक रहेगा? 🕐\n\n", formatDateHindi(date))
	for i, s := range slots {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	fmt.Fprintf(&b, "\nनंबर भेजें (1-%d)", len(slots))

	return Result{Reply: Text(b.String()), NewState: sess}
}

// confirmBooking is the terminal step: it picks the slot, draws a token, and
// queues the persistence and staff alert as effects. The patient gets the
// confirmation even if persistence later fails; staff chase those by hand.
func (f *AppointmentFlow) confirmBooking(input string, sess *services.Session) Result {
	doctor, ok := models.DoctorByKey(sess.Context["doctor"])
	if !ok {
		return f.askProblem(sess)
	}
	date := sess.Context["date"]
	slots := visibleSlots(doctor, f.deps.Config.SlotWidth)

	slot := slots[0]
	if m := firstNumber.FindString(input); m != "" {
		if idx, err := strconv.Atoi(m); err == nil && idx >= 1 && idx <= len(slots) {
			slot = slots[idx-1]
		}
	}

	token, err := f.deps.Store.NextTokenNumber(doctor.Key, date)
	if err != nil {
		log.Printf("⚠️ token counter failed, using random token: %v", err)
		token = randomToken()
	}

	name := sess.Name
	if name == "" {
		name = "मरीज"
	}
	appt := &models.Appointment{
		Phone:       sess.Phone,
		PatientName: name,
		DoctorKey:   doctor.Key,
		DoctorName:  doctor.Name,
		Department:  doctor.Department,
		Date:        date,
		Time:        slot,
		Token:       token,
		Problem:     sess.Context["problem"],
		Status:      models.AppointmentStatusConfirmed,
	}

	parsed, _ := time.Parse("2006-01-02", date)
	reply := fmt.Sprintf(`✅ *अपॉइंटमेंट बुक हो गई!*

👨‍⚕️ डॉक्टर: %s
📅 तारीख: %s
🕐 समय: %s
🎫 *टोकन नंबर: %d*

📍 %s

कृपया अपने समय से 10 मिनट पहले पहुंचें और टोकन नंबर बताएं।

🙏 धन्यवाद! 'menu' भेजकर मुख्य मेन्यू पर जाएं।`,
		doctor.Name, formatDateHindi(parsed), slot, token, f.deps.Config.HospitalAddress)

	next := services.NewDefaultSession(sess.Phone)
	next.Name = sess.Name

	return Result{
		Reply:    Text(reply),
		NewState: next,
		Effects: []Effect{
			func() error {
				_, err := f.deps.Store.CreateAppointment(appt)
				// Staff hear about the booking either way; on a persistence
				// failure the alert is what lets them chase it by hand.
				f.deps.Staff.NotifyNewAppointment(appt)
				if err != nil {
					return fmt.Errorf("appointment %s token %d not persisted: %w", appt.Phone, appt.Token, err)
				}
				// Unregistered callers have no patient record to stamp
				_ = f.deps.Store.RecordVisit(appt.Phone)
				return nil
			},
		},
	}
}

// parseDoctorSelection resolves a menu number or a name/keyword. A keyword
// matching several doctors picks the default; nothing matching at all is a
// failed parse so the caller can re-prompt.
func parseDoctorSelection(input string) (models.Doctor, bool) {
	catalog := models.Catalog()

	if m := firstNumber.FindString(input); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n >= 1 && n <= len(catalog) {
			return catalog[n-1], true
		}
		return models.Doctor{}, false
	}

	var matches []models.Doctor
	for _, d := range catalog {
		for _, kw := range d.Keywords {
			if strings.Contains(input, kw) {
				matches = append(matches, d)
				break
			}
		}
	}
	switch len(matches) {
	case 0:
		return models.Doctor{}, false
	case 1:
		return matches[0], true
	default:
		return models.DefaultDoctor(), true
	}
}

// parseDate turns free text into a calendar date. Unparseable input falls
// back to tomorrow rather than failing the turn.
func parseDate(input string, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case strings.Contains(input, "आज") || strings.Contains(input, "today") || strings.Contains(input, "aaj"):
		return today
	case strings.Contains(input, "कल") || strings.Contains(input, "tomorrow") || strings.Contains(input, "kal"):
		return today.AddDate(0, 0, 1)
	}

	for _, layout := range []string{"2006-01-02", "02/01/2006", "02-01-2006"} {
		if t, err := time.Parse(layout, strings.TrimSpace(input)); err == nil {
			return t
		}
	}

	// Bare day-of-month: this month, or next month if already past
	if m := firstNumber.FindString(input); m != "" {
		if day, err := strconv.Atoi(m); err == nil && day >= 1 && day <= 31 {
			candidate := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
			if candidate.Before(today) {
				candidate = candidate.AddDate(0, 1, 0)
			}
			if candidate.Day() == day {
				return candidate
			}
		}
	}

	return today.AddDate(0, 0, 1)
}

var hindiMonths = [...]string{
	"जनवरी", "फरवरी", "मार्च", "अप्रैल", "मई", "जून",
	"जुलाई", "अगस्त", "सितंबर", "अक्टूबर", "नवंबर", "दिसंबर",
}

func formatDateHindi(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), hindiMonths[t.Month()-1], t.Year())
}

func visibleSlots(doctor models.Doctor, width time.Duration) []string {
	slots := doctor.Availability.Slots(width)
	if len(slots) > maxVisibleSlots {
		slots = slots[:maxVisibleSlots]
	}
	return slots
}

// randomToken is the counter fallback, still inside the four-digit range the
// reception desk expects.
func randomToken() int {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return 1000
	}
	return 1000 + int(n.Int64())
}
