package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/services"
)

const (
	stepShowOptions     = "show_options"
	stepGetMedicineName = "get_medicine_name"
	stepGetReminderTime = "get_reminder_time"
)

// PrescriptionFlow lists the patient's medicine reminders and lets them add a
// new one: medicine name first, then the time of day in free text.
type PrescriptionFlow struct {
	deps Deps
}

func NewPrescriptionFlow(deps Deps) *PrescriptionFlow {
	return &PrescriptionFlow{deps: deps}
}

func (f *PrescriptionFlow) Handle(_ context.Context, input string, sess *services.Session) Result {
	switch sess.Step {
	case stepShowOptions:
		return f.showOptions(input, sess)
	case stepGetMedicineName:
		return f.getMedicineName(input, sess)
	case stepGetReminderTime:
		return f.save(input, sess)
	default:
		return f.listReminders(sess)
	}
}

func (f *PrescriptionFlow) listReminders(sess *services.Session) Result {
	reminders, err := f.deps.Store.GetMedicineReminders(sess.Phone)
	if err != nil {
		next := services.NewDefaultSession(sess.Phone)
		next.Name = sess.Name
		return Result{
			Reply:    Text("माफ़ कीजिए, अभी रिमाइंडर नहीं देख पा रहे। 🙏 थोड़ी देर बाद कोशिश करें।"),
			NewState: next,
		}
	}

	var b strings.Builder
	b.WriteString("💊 *दवाइयां / रिमाइंडर*\n\n")
	if len(reminders) == 0 {
		b.WriteString("आपका कोई रिमाइंडर सेट नहीं है।\n\n")
	} else {
		b.WriteString("आपके रिमाइंडर:\n")
		for _, r := range reminders {
			fmt.Fprintf(&b, "• %s - %s\n", r.MedicineName, r.ReminderTime)
		}
		b.WriteString("\n")
	}
	b.WriteString("नया रिमाइंडर जोड़ने के लिए 'add' भेजें, या 'menu' भेजकर वापस जाएं।")

	sess.Step = stepShowOptions
	return Result{Reply: Text(b.String()), NewState: sess}
}

func (f *PrescriptionFlow) showOptions(input string, sess *services.Session) Result {
	if input == "add" || strings.Contains(input, "जोड़") || strings.Contains(input, "दवा") || strings.Contains(input, "रिमाइंडर") {
		sess.Step = stepGetMedicineName
		return Result{
			Reply:    Text("किस *दवा* का रिमाइंडर सेट करना है? दवा का नाम लिखें:"),
			NewState: sess,
		}
	}

	next := services.NewDefaultSession(sess.Phone)
	next.Name = sess.Name
	return Result{
		Reply:    Text("ठीक है। 'menu' भेजकर मुख्य मेन्यू पर जाएं। 🙏"),
		NewState: next,
	}
}

func (f *PrescriptionFlow) getMedicineName(input string, sess *services.Session) Result {
	name := strings.TrimSpace(input)
	if name == "" {
		return Result{Reply: Text("कृपया दवा का नाम लिखें:"), NewState: sess}
	}
	sess.Context["medicine"] = name
	sess.Step = stepGetReminderTime
	return Result{
		Reply:    Text(fmt.Sprintf("*%s* - किस समय याद दिलाएं? ⏰\n\n(जैसे: सुबह 8 बजे, दोपहर 2 बजे, रात 9 बजे)", name)),
		NewState: sess,
	}
}

func (f *PrescriptionFlow) save(input string, sess *services.Session) Result {
	rem := &models.MedicineReminder{
		Phone:        sess.Phone,
		PatientName:  sess.Name,
		MedicineName: sess.Context["medicine"],
		ReminderTime: strings.TrimSpace(input),
		Active:       true,
	}

	next := services.NewDefaultSession(sess.Phone)
	next.Name = sess.Name

	return Result{
		Reply: Text(fmt.Sprintf("✅ रिमाइंडर सेट हो गया!\n\n💊 %s - %s\n\nहम आपको WhatsApp पर याद दिलाएंगे। 'menu' भेजकर मुख्य मेन्यू पर जाएं। 🙏",
			rem.MedicineName, rem.ReminderTime)),
		NewState: next,
		Effects: []Effect{
			func() error {
				if _, err := f.deps.Store.SaveMedicineReminder(rem); err != nil {
					return fmt.Errorf("reminder for %s not persisted: %w", rem.Phone, err)
				}
				return nil
			},
		},
	}
}
