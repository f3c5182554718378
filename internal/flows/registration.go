package flows

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/services"
)

const (
	stepGetName    = "get_name"
	stepGetAge     = "get_age"
	stepGetGender  = "get_gender"
	stepGetAddress = "get_address"
)

// RegistrationFlow collects a new patient's details field by field and saves
// the record at the end. Age outside 1-120 re-prompts; gender accepts Hindi
// and English spellings.
type RegistrationFlow struct {
	deps Deps
}

func NewRegistrationFlow(deps Deps) *RegistrationFlow {
	return &RegistrationFlow{deps: deps}
}

func (f *RegistrationFlow) Handle(_ context.Context, input string, sess *services.Session) Result {
	switch sess.Step {
	case stepGetName:
		return f.getName(input, sess)
	case stepGetAge:
		return f.getAge(input, sess)
	case stepGetGender:
		return f.getGender(input, sess)
	case stepGetAddress:
		return f.save(input, sess)
	default:
		sess.Step = stepGetName
		return Result{
			Reply:    Text("नया रजिस्ट्रेशन 📝\n\nसबसे पहले, मरीज का *पूरा नाम* बताएं:"),
			NewState: sess,
		}
	}
}

func (f *RegistrationFlow) getName(input string, sess *services.Session) Result {
	name := strings.TrimSpace(input)
	if name == "" {
		return Result{Reply: Text("कृपया मरीज का नाम लिखें:"), NewState: sess}
	}
	sess.Context["name"] = name
	sess.Step = stepGetAge
	return Result{
		Reply:    Text(fmt.Sprintf("धन्यवाद %s! 🙏\n\nअब *उम्र* बताएं (सालों में):", name)),
		NewState: sess,
	}
}

func (f *RegistrationFlow) getAge(input string, sess *services.Session) Result {
	age, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || age < 1 || age > 120 {
		return Result{
			Reply:    Text("उम्र समझ नहीं आई। 🙏\n\nकृपया 1 से 120 के बीच की संख्या भेजें (जैसे 35):"),
			NewState: sess,
		}
	}
	sess.Context["age"] = strconv.Itoa(age)
	sess.Step = stepGetGender
	return Result{
		Reply:    Text("अब *लिंग* बताएं:\n\n1. पुरुष\n2. महिला\n3. अन्य"),
		NewState: sess,
	}
}

func (f *RegistrationFlow) getGender(input string, sess *services.Session) Result {
	gender := parseGender(input)
	if gender == "" {
		return Result{
			Reply:    Text("कृपया 1, 2 या 3 भेजें:\n\n1. पुरुष\n2. महिला\n3. अन्य"),
			NewState: sess,
		}
	}
	sess.Context["gender"] = gender
	sess.Step = stepGetAddress
	return Result{
		Reply:    Text("अंत में, अपना *पता* बताएं (गांव/मोहल्ला, शहर):"),
		NewState: sess,
	}
}

func (f *RegistrationFlow) save(input string, sess *services.Session) Result {
	age, _ := strconv.Atoi(sess.Context["age"])
	reg := &models.PatientRegistration{
		Phone:   sess.Phone,
		Name:    sess.Context["name"],
		Age:     age,
		Gender:  sess.Context["gender"],
		Address: strings.TrimSpace(input),
	}

	reply := fmt.Sprintf(`✅ *रजिस्ट्रेशन पूरा हुआ!*

👤 नाम: %s
🎂 उम्र: %d वर्ष
⚧ लिंग: %s
📍 पता: %s

अब आप अपॉइंटमेंट बुक कर सकते हैं। 'menu' भेजकर सेवाएं देखें। 🙏`,
		reg.Name, reg.Age, reg.Gender, reg.Address)

	next := services.NewDefaultSession(sess.Phone)
	next.Name = reg.Name

	return Result{
		Reply:    Text(reply),
		NewState: next,
		Effects: []Effect{
			func() error {
				if _, err := f.deps.Store.CreatePatient(reg); err != nil {
					return fmt.Errorf("patient %s not persisted: %w", reg.Phone, err)
				}
				f.deps.Staff.NotifyNewPatient(reg.Phone, reg.Name)
				return nil
			},
		},
	}
}

func parseGender(input string) string {
	switch {
	case input == "2" || input == "f" || strings.Contains(input, "महिला") || strings.Contains(input, "female"):
		return "महिला"
	case input == "1" || input == "m" || strings.Contains(input, "पुरुष") || strings.Contains(input, "male"):
		return "पुरुष"
	case input == "3" || strings.Contains(input, "अन्य") || strings.Contains(input, "other"):
		return "अन्य"
	default:
		return ""
	}
}
