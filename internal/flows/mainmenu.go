package flows

import (
	"context"
	"fmt"

	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/services"
)

const stepWaitingSelection = "waiting_selection"

// menuOptions maps both the numeric choice and the interactive list row id to
// the flow each one starts. Emergency appears in the menu even though the
// keyword interrupt usually catches it first.
var menuOptions = map[string]FlowID{
	"1": FlowAppointment, "svc_appointment": FlowAppointment,
	"2": FlowLabReport, "svc_lab_report": FlowLabReport,
	"3": FlowPrescription, "svc_prescription": FlowPrescription,
	"4": FlowBill, "svc_bill": FlowBill,
	"5": FlowDoctorInfo, "svc_doctor_info": FlowDoctorInfo,
	"6": FlowRegistration, "svc_registration": FlowRegistration,
	"7": FlowFeedback, "svc_feedback": FlowFeedback,
}

// MainMenuFlow greets the patient, shows the service list, and routes a
// selection into the chosen flow. Unrecognized free text is handed to the
// assistant for intent analysis before falling back to re-showing the menu.
type MainMenuFlow struct {
	deps Deps

	// lookup resolves a flow so a selection can be dispatched in the same
	// turn; set by the router after all flows are constructed.
	lookup func(FlowID) Flow
}

func NewMainMenuFlow(deps Deps) *MainMenuFlow {
	return &MainMenuFlow{deps: deps}
}

func (f *MainMenuFlow) Handle(ctx context.Context, input string, sess *services.Session) Result {
	if sess.Step != stepWaitingSelection {
		return f.ShowMenu(sess)
	}

	if id, ok := menuOptions[input]; ok {
		return f.startFlow(ctx, id, input, sess)
	}

	// Free text at the menu: let the assistant guess what the patient wants
	intent, err := f.deps.Assistant.AnalyzeIntent(ctx, input)
	if err == nil {
		switch intent.Intent {
		case services.IntentAppointment:
			return f.startFlow(ctx, FlowAppointment, input, sess)
		case services.IntentLabReport:
			return f.startFlow(ctx, FlowLabReport, input, sess)
		case services.IntentPrescription:
			return f.startFlow(ctx, FlowPrescription, input, sess)
		case services.IntentBill:
			return f.startFlow(ctx, FlowBill, input, sess)
		case services.IntentDoctorInfo:
			return f.startFlow(ctx, FlowDoctorInfo, input, sess)
		case services.IntentRegistration:
			return f.startFlow(ctx, FlowRegistration, input, sess)
		case services.IntentFeedback:
			return f.startFlow(ctx, FlowFeedback, input, sess)
		}
	}

	res := f.ShowMenu(sess)
	res.Reply.ListBody = "माफ़ कीजिए, मैं समझ नहीं पाया। 🙏 कृपया नीचे दी गई सेवाओं में से चुनें:"
	return res
}

// startFlow moves the session into the target flow and dispatches the same
// turn, so the patient gets the flow's first prompt immediately.
func (f *MainMenuFlow) startFlow(ctx context.Context, id FlowID, input string, sess *services.Session) Result {
	sess.Flow = string(id)
	sess.Step = services.DefaultStep
	return f.lookup(id).Handle(ctx, input, sess)
}

// ShowMenu renders the service list and parks the session at the menu
func (f *MainMenuFlow) ShowMenu(sess *services.Session) Result {
	greeting := "नमस्ते! 🙏"
	if sess.Name != "" {
		greeting = fmt.Sprintf("नमस्ते %s! 🙏", sess.Name)
	}

	next := services.NewDefaultSession(sess.Phone)
	next.Name = sess.Name
	next.Step = stepWaitingSelection

	return Result{
		Reply: Reply{
			ListBody: fmt.Sprintf(`%s

*%s* में आपका स्वागत है।

मैं आपकी कैसे मदद कर सकता हूं? नीचे से सेवा चुनें या नंबर भेजें:

1️⃣ अपॉइंटमेंट बुक करें
2️⃣ लैब रिपोर्ट
3️⃣ दवाइयां / रिमाइंडर
4️⃣ बिल की जानकारी
5️⃣ डॉक्टर की जानकारी
6️⃣ नया रजिस्ट्रेशन
7️⃣ फीडबैक दें

🚨 इमरजेंसी के लिए 'emergency' लिखें`, greeting, f.deps.Config.HospitalName),
			ListButton: "सेवाएं देखें",
			List: []models.ListSection{
				{
					Title: "अस्पताल सेवाएं",
					Rows: []models.ListRow{
						{ID: "svc_appointment", Title: "अपॉइंटमेंट बुक करें", Description: "डॉक्टर से मिलने का समय लें"},
						{ID: "svc_lab_report", Title: "लैब रिपोर्ट", Description: "अपनी जांच रिपोर्ट देखें"},
						{ID: "svc_prescription", Title: "दवाइयां / रिमाइंडर", Description: "दवा का रिमाइंडर सेट करें"},
						{ID: "svc_bill", Title: "बिल की जानकारी", Description: "बिल और भुगतान"},
						{ID: "svc_doctor_info", Title: "डॉक्टर की जानकारी", Description: "डॉक्टर और उनका समय"},
						{ID: "svc_registration", Title: "नया रजिस्ट्रेशन", Description: "पहली बार आ रहे हैं?"},
						{ID: "svc_feedback", Title: "फीडबैक दें", Description: "अपना अनुभव बताएं"},
					},
				},
			},
		},
		NewState: next,
	}
}

// ShowHelp explains the commands and re-parks the session at the menu
func (f *MainMenuFlow) ShowHelp(sess *services.Session) Result {
	next := services.NewDefaultSession(sess.Phone)
	next.Name = sess.Name
	next.Step = stepWaitingSelection

	return Result{
		Reply: Text(fmt.Sprintf(`ℹ️ *मदद*

• 'menu' भेजें - मुख्य मेन्यू के लिए
• 'cancel' भेजें - कोई भी काम बीच में रोकने के लिए
• 'emergency' भेजें - आपातकालीन मदद के लिए

सेवा चुनने के लिए 1 से 7 तक कोई नंबर भेजें।

📞 सीधी बात के लिए: %s`, f.deps.Config.HospitalPhone)),
		NewState: next,
	}
}
