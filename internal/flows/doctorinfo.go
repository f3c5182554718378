package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/services"
)

const stepPickDoctor = "pick_doctor"

// DoctorInfoFlow shows the doctor catalog, then a detail card for whichever
// doctor the patient picks. "सभी" or "all" prints every card at once.
type DoctorInfoFlow struct {
	deps Deps
}

func NewDoctorInfoFlow(deps Deps) *DoctorInfoFlow {
	return &DoctorInfoFlow{deps: deps}
}

func (f *DoctorInfoFlow) Handle(_ context.Context, input string, sess *services.Session) Result {
	if sess.Step != stepPickDoctor {
		sess.Step = stepPickDoctor
		var b strings.Builder
		b.WriteString("👨‍⚕️ *हमारे डॉक्टर:*\n\n")
		for i, d := range models.Catalog() {
			fmt.Fprintf(&b, "%d️⃣ %s (%s)\n", i+1, d.Name, d.Specialty)
		}
		b.WriteString("\nकिसके बारे में जानना चाहेंगे? नंबर भेजें या 'all' लिखें।")
		return Result{Reply: Text(b.String()), NewState: sess}
	}

	next := services.NewDefaultSession(sess.Phone)
	next.Name = sess.Name

	if input == "all" || strings.Contains(input, "सभी") || strings.Contains(input, "sabhi") {
		var b strings.Builder
		for _, d := range models.Catalog() {
			b.WriteString(doctorCard(d))
			b.WriteString("\n")
		}
		b.WriteString("'menu' भेजकर मुख्य मेन्यू पर जाएं। 🙏")
		return Result{Reply: Text(b.String()), NewState: next}
	}

	doctor, ok := parseDoctorSelection(input)
	if !ok {
		return Result{
			Reply:    Text(fmt.Sprintf("माफ़ कीजिए, समझ नहीं आया। 🙏\n\n1 से %d तक का नंबर भेजें या 'all' लिखें।", len(models.Catalog()))),
			NewState: sess,
		}
	}

	return Result{
		Reply:    Text(doctorCard(doctor) + "\nअपॉइंटमेंट के लिए 'menu' भेजकर विकल्प 1 चुनें। 🙏"),
		NewState: next,
	}
}

func doctorCard(d models.Doctor) string {
	return fmt.Sprintf(`👨‍⚕️ *%s*
🩺 विशेषज्ञता: %s
🏥 विभाग: %s
📜 अनुभव: %s
🕐 समय: %d:00 से %d:00 बजे तक
📅 %s
`, d.Name, d.Specialty, d.Department, d.Experience,
		d.Availability.StartHour, d.Availability.EndHour, d.Availability.RuleText())
}
