package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpl-hospital/carebot-backend/internal/services"
)

// LabReportFlow lists the patient's recent lab tests with their status. It is
// a single-turn flow: whatever the outcome, the session returns to the menu.
type LabReportFlow struct {
	deps Deps
}

func NewLabReportFlow(deps Deps) *LabReportFlow {
	return &LabReportFlow{deps: deps}
}

func (f *LabReportFlow) Handle(_ context.Context, _ string, sess *services.Session) Result {
	next := services.NewDefaultSession(sess.Phone)
	next.Name = sess.Name

	tests, err := f.deps.Store.GetLabTests(sess.Phone, 5)
	if err != nil {
		return Result{
			Reply: Text(fmt.Sprintf("माफ़ कीजिए, अभी रिपोर्ट नहीं देख पा रहे। 🙏\n\nकृपया थोड़ी देर बाद कोशिश करें या लैब को कॉल करें: %s",
				f.deps.Config.HospitalPhone)),
			NewState: next,
		}
	}

	if len(tests) == 0 {
		return Result{
			Reply: Text(fmt.Sprintf("🔬 आपके नंबर पर कोई लैब टेस्ट दर्ज नहीं है।\n\nटेस्ट करवाने के लिए अस्पताल आएं या कॉल करें: %s\n\n'menu' भेजकर मुख्य मेन्यू पर जाएं।",
				f.deps.Config.HospitalPhone)),
			NewState: next,
		}
	}

	var b strings.Builder
	b.WriteString("🔬 *आपकी लैब रिपोर्ट:*\n\n")
	for _, t := range tests {
		fmt.Fprintf(&b, "%s *%s*\n   तारीख: %s | स्थिति: %s\n\n", t.StatusEmoji(), t.TestName, t.TestDate, labStatusHindi(t.Status))
	}
	b.WriteString("✅ तैयार रिपोर्ट अस्पताल की लैब से ले सकते हैं।\n\n'menu' भेजकर मुख्य मेन्यू पर जाएं।")

	return Result{Reply: Text(b.String()), NewState: next}
}

func labStatusHindi(status string) string {
	switch status {
	case "booked":
		return "बुक हुआ"
	case "processing":
		return "जांच चल रही है"
	case "ready":
		return "तैयार है"
	case "delivered":
		return "दी जा चुकी है"
	default:
		return status
	}
}
