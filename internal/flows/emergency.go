package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpl-hospital/carebot-backend/internal/services"
)

// emergencyKeywords trigger an immediate interrupt regardless of what the
// session is doing. Matched as substrings of the normalized input, so
// "my father is unconscious" fires on "unconscious".
var emergencyKeywords = []string{
	"emergency", "unconscious", "bleeding", "chest pain", "heart attack",
	"not breathing", "seizure", "accident", "severe pain",
	"आपातकाल", "इमरजेंसी", "बेहोश", "खून बह", "सीने में दर्द", "हार्ट अटैक",
	"सांस नहीं", "दौरा पड़", "एक्सीडेंट", "दुर्घटना",
}

// IsEmergency reports whether the input contains an emergency keyword
func IsEmergency(input string) bool {
	for _, kw := range emergencyKeywords {
		if strings.Contains(input, kw) {
			return true
		}
	}
	return false
}

// EmergencyFlow replies with immediate instructions and alerts the on-call
// staff. It never asks a follow-up question; the session drops back to the
// main menu so the next message starts clean.
type EmergencyFlow struct {
	deps Deps
}

func NewEmergencyFlow(deps Deps) *EmergencyFlow {
	return &EmergencyFlow{deps: deps}
}

func (f *EmergencyFlow) Handle(_ context.Context, input string, sess *services.Session) Result {
	cfg := f.deps.Config
	reply := fmt.Sprintf(`🚨 *आपातकालीन सेवा* 🚨

तुरंत कॉल करें: 📞 *%s*

🏥 %s
📍 %s

हमारी इमरजेंसी टीम 24x7 उपलब्ध है। आप सीधे अस्पताल आ सकते हैं, इलाज तुरंत शुरू होगा।

🚑 एम्बुलेंस के लिए भी इसी नंबर पर कॉल करें।`,
		cfg.HospitalPhone, cfg.HospitalName, cfg.HospitalAddress)

	phone := sess.Phone
	name := sess.Name
	next := services.NewDefaultSession(phone)
	next.Name = name

	return Result{
		Reply:    Text(reply),
		NewState: next,
		Effects: []Effect{
			func() error {
				f.deps.Staff.NotifyEmergency(phone, name, input)
				return nil
			},
		},
	}
}
