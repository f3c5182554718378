package flows

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/services"
)

// globalCommands reset the conversation back to the main menu from any state.
// Bare digits are deliberately absent: numbers are live answers inside flows
// (ages, ratings, slot choices) and must reach the current step.
var globalCommands = map[string]bool{
	"menu": true, "home": true, "start": true,
	"hi": true, "hello": true, "help": true,
	"cancel": true, "back": true, "main": true,
	"नमस्ते": true, "namaste": true,
}

// Router receives inbound WhatsApp messages, resolves the session, and
// dispatches to the flow the session points at. It owns the message-level
// priority order: emergency keywords first, global commands second, then the
// current flow.
type Router struct {
	sessions *services.SessionStore
	notifier services.Notifier
	deps     Deps

	flows     map[FlowID]Flow
	mainMenu  *MainMenuFlow
	emergency *EmergencyFlow

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewRouter(sessions *services.SessionStore, notifier services.Notifier, deps Deps) *Router {
	r := &Router{
		sessions:  sessions,
		notifier:  notifier,
		deps:      deps,
		userLocks: make(map[string]*sync.Mutex),
	}

	r.mainMenu = NewMainMenuFlow(deps)
	r.emergency = NewEmergencyFlow(deps)

	r.flows = map[FlowID]Flow{
		FlowMainMenu:     r.mainMenu,
		FlowAppointment:  NewAppointmentFlow(deps),
		FlowRegistration: NewRegistrationFlow(deps),
		FlowFeedback:     NewFeedbackFlow(deps),
		FlowLabReport:    NewLabReportFlow(deps),
		FlowBill:         NewBillFlow(deps),
		FlowDoctorInfo:   NewDoctorInfoFlow(deps),
		FlowPrescription: NewPrescriptionFlow(deps),
		FlowEmergency:    r.emergency,
	}
	r.mainMenu.lookup = func(id FlowID) Flow { return r.flows[id] }

	return r
}

// Normalize extracts the routable input from an inbound message. Free text is
// lower-cased and trimmed; interactive replies carry their id verbatim. An
// empty string means the message has nothing routable and must be ignored.
func Normalize(msg models.InboundMessage) string {
	switch msg.Type {
	case models.MessageTypeInteractive:
		if msg.ButtonReplyID != "" {
			return msg.ButtonReplyID
		}
		return msg.ListReplyID
	case models.MessageTypeText:
		return strings.ToLower(strings.TrimSpace(msg.Text))
	default:
		return ""
	}
}

// HandleMessage processes one inbound message end to end. Messages from the
// same sender are serialized; a rapid retry therefore sees the state the
// first delivery left behind instead of racing it.
func (r *Router) HandleMessage(ctx context.Context, msg models.InboundMessage) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("❌ panic handling message from %s: %v", msg.SenderID, rec)
			// The session stays as it was; the patient can resume or send
			// 'menu' themselves.
			if msg.SenderID != "" {
				_ = r.notifier.SendText(msg.SenderID, fmt.Sprintf(
					"क्षमा करें, कुछ गड़बड़ हो गई। 🙏\n\nकृपया 'menu' भेजकर दोबारा शुरू करें या हमें कॉल करें: %s",
					r.deps.Config.HospitalPhone))
			}
		}
	}()

	if msg.SenderID == "" {
		return
	}
	input := Normalize(msg)
	if input == "" {
		return
	}

	lock := r.userLock(msg.SenderID)
	lock.Lock()
	defer lock.Unlock()

	if err := r.notifier.MarkRead(msg.MessageID); err != nil {
		log.Printf("⚠️ mark read failed: %v", err)
	}
	if err := r.deps.Store.LogMessage(msg.SenderID, msg.Text, time.Now().Format("2006-01-02")); err != nil {
		log.Printf("⚠️ message log failed: %v", err)
	}

	sess := r.sessions.Get(msg.SenderID)
	if sess.Name == "" && msg.SenderName != "" {
		sess.Name = msg.SenderName
	}

	var res Result
	switch {
	case IsEmergency(input):
		res = r.emergency.Handle(ctx, input, sess)
	case globalCommands[input]:
		if input == "help" {
			res = r.mainMenu.ShowHelp(sess)
		} else {
			res = r.mainMenu.ShowMenu(sess)
		}
	default:
		flow, ok := r.flows[FlowID(sess.Flow)]
		if !ok {
			log.Printf("⚠️ unknown flow %q for %s, falling back to main menu", sess.Flow, msg.SenderID)
			sess.Reset()
			flow = r.mainMenu
		}
		res = flow.Handle(ctx, input, sess)
	}

	if res.NewState != nil {
		r.sessions.Set(msg.SenderID, res.NewState)
	}

	if err := r.send(msg.SenderID, res.Reply); err != nil {
		log.Printf("❌ send to %s failed: %v", msg.SenderID, err)
	}

	for _, effect := range res.Effects {
		if err := effect(); err != nil {
			log.Printf("⚠️ side effect failed for %s: %v", msg.SenderID, err)
		}
	}
}

func (r *Router) send(to string, reply Reply) error {
	switch {
	case len(reply.List) > 0:
		return r.notifier.SendList(to, reply.ListBody, reply.ListButton, reply.List)
	case len(reply.Buttons) > 0:
		return r.notifier.SendButtons(to, reply.ButtonsBody, reply.Buttons)
	case reply.Text != "":
		return r.notifier.SendText(to, reply.Text)
	default:
		return nil
	}
}

func (r *Router) userLock(sender string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.userLocks[sender]
	if !ok {
		lock = &sync.Mutex{}
		r.userLocks[sender] = lock
	}
	return lock
}
