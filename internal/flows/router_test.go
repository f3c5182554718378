package flows

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpl-hospital/carebot-backend/internal/config"
	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/services"
	"github.com/rpl-hospital/carebot-backend/internal/storage"
)

type sentMessage struct {
	To   string
	Body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeNotifier) SendText(to, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{To: to, Body: text})
	return nil
}

func (f *fakeNotifier) SendList(to, body, _ string, _ []models.ListSection) error {
	return f.SendText(to, body)
}

func (f *fakeNotifier) SendButtons(to, body string, _ []models.Button) error {
	return f.SendText(to, body)
}

func (f *fakeNotifier) MarkRead(string) error { return nil }

func (f *fakeNotifier) lastTo(to string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].To == to {
			return f.sent[i].Body
		}
	}
	return ""
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type testBot struct {
	router   *Router
	sessions *services.SessionStore
	store    *storage.MemoryStore
	notifier *fakeNotifier
	cfg      *config.Config
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	store := storage.NewMemoryStore()
	notifier := &fakeNotifier{}
	cfg := &config.Config{
		HospitalName:    "RPL Hospital",
		HospitalPhone:   "+91-9999999999",
		HospitalAddress: "Dumariyaganj",
		StaffNumber:     "+911234567890",
		SessionTTL:      30 * time.Minute,
		SlotWidth:       10 * time.Minute,
	}
	sessions := services.NewSessionStore(store, cfg.SessionTTL)
	t.Cleanup(sessions.Stop)

	router := NewRouter(sessions, notifier, Deps{
		Store:     store,
		Assistant: services.KeywordAssistant{},
		Staff:     services.NewStaffNotifier(notifier, cfg.StaffNumber),
		Config:    cfg,
	})

	return &testBot{
		router:   router,
		sessions: sessions,
		store:    store,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (b *testBot) text(phone, body string) {
	b.router.HandleMessage(context.Background(), models.InboundMessage{
		Type:      models.MessageTypeText,
		Text:      body,
		SenderID:  phone,
		MessageID: "msg-" + body,
	})
}

func TestGlobalCommandResetsSession(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876500001"

	bot.text(phone, "hi")
	bot.text(phone, "1")
	bot.text(phone, "मुझे बुखार है")

	sess := bot.sessions.Get(phone)
	if sess.Flow != string(FlowAppointment) {
		t.Fatalf("expected appointment flow, got %q", sess.Flow)
	}

	bot.text(phone, "menu")

	sess = bot.sessions.Get(phone)
	if sess.Flow != services.DefaultFlow {
		t.Fatalf("expected session back at %q after menu, got %q", services.DefaultFlow, sess.Flow)
	}
	if got := bot.notifier.lastTo(phone); !strings.Contains(got, "RPL Hospital") {
		t.Fatalf("expected menu reply, got %q", got)
	}
}

func TestEmergencyInterruptsAnyFlow(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876500002"

	// Park the session mid-appointment, then fire an emergency keyword
	bot.text(phone, "hi")
	bot.text(phone, "1")
	bot.text(phone, "पेट दर्द")

	bot.text(phone, "मेरे पिता बेहोश हो गए हैं")

	reply := bot.notifier.lastTo(phone)
	if !strings.Contains(reply, "आपातकालीन") {
		t.Fatalf("expected emergency instructions, got %q", reply)
	}
	if !strings.Contains(reply, bot.cfg.HospitalPhone) {
		t.Fatalf("emergency reply must carry the hospital phone, got %q", reply)
	}

	staffAlert := bot.notifier.lastTo(bot.cfg.StaffNumber)
	if staffAlert == "" {
		t.Fatal("expected a staff alert for the emergency")
	}

	sess := bot.sessions.Get(phone)
	if sess.Flow != services.DefaultFlow || sess.Step != services.DefaultStep {
		t.Fatalf("expected session reset after emergency, got %s/%s", sess.Flow, sess.Step)
	}
}

func TestUnknownFlowFallsBackToMenu(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876500003"

	sess := services.NewDefaultSession(phone)
	sess.Flow = "loan-application"
	bot.sessions.Set(phone, sess)

	bot.text(phone, "kuch bhi")

	got := bot.sessions.Get(phone)
	if got.Flow != services.DefaultFlow {
		t.Fatalf("expected fallback to %q, got %q", services.DefaultFlow, got.Flow)
	}
}

func TestMalformedMessagesAreIgnored(t *testing.T) {
	bot := newTestBot(t)

	bot.router.HandleMessage(context.Background(), models.InboundMessage{
		Type:     models.MessageTypeText,
		Text:     "   ",
		SenderID: "+919876500004",
	})
	bot.router.HandleMessage(context.Background(), models.InboundMessage{
		Type: models.MessageTypeText,
		Text: "hello",
		// no sender
	})

	if n := bot.notifier.count(); n != 0 {
		t.Fatalf("expected no replies to malformed messages, sent %d", n)
	}
}

func TestInteractiveReplyRoutesByID(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876500005"

	bot.text(phone, "hi")
	bot.router.HandleMessage(context.Background(), models.InboundMessage{
		Type:        models.MessageTypeInteractive,
		ListReplyID: "svc_doctor_info",
		SenderID:    phone,
		MessageID:   "msg-list",
	})

	sess := bot.sessions.Get(phone)
	if sess.Flow != string(FlowDoctorInfo) {
		t.Fatalf("expected doctor-info flow from list reply, got %q", sess.Flow)
	}
}

func TestRetryAfterBookingShowsMenuAgain(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876500006"

	bot.text(phone, "hi")
	bot.text(phone, "1")
	bot.text(phone, "बुखार")
	bot.text(phone, "1")
	bot.text(phone, "आज")
	bot.text(phone, "1")

	// A duplicate of the last message must not book twice: the session is
	// back at the menu, so the same input is a menu selection now.
	bot.text(phone, "1")

	appts, err := bot.store.GetAppointmentsByPhone(phone, 10)
	if err != nil {
		t.Fatalf("GetAppointmentsByPhone: %v", err)
	}
	if len(appts) != 1 {
		t.Fatalf("expected exactly 1 appointment after retry, got %d", len(appts))
	}
}

type panickyStore struct{ *storage.MemoryStore }

func (panickyStore) LogMessage(string, string, string) error {
	panic("log store down")
}

func TestPanicLeavesSessionUntouched(t *testing.T) {
	store := storage.NewMemoryStore()
	notifier := &fakeNotifier{}
	cfg := &config.Config{
		HospitalPhone: "+91-9999999999",
		StaffNumber:   "+911234567890",
		SessionTTL:    30 * time.Minute,
		SlotWidth:     10 * time.Minute,
	}
	sessions := services.NewSessionStore(store, cfg.SessionTTL)
	t.Cleanup(sessions.Stop)

	router := NewRouter(sessions, notifier, Deps{
		Store:     panickyStore{store},
		Assistant: services.KeywordAssistant{},
		Staff:     services.NewStaffNotifier(notifier, cfg.StaffNumber),
		Config:    cfg,
	})

	phone := "+919876500007"
	sess := services.NewDefaultSession(phone)
	sess.Flow = string(FlowAppointment)
	sess.Step = stepSelectDate
	sess.Context["doctor"] = "singh"
	sess.Context["problem"] = "कान में दर्द"
	sessions.Set(phone, sess)

	router.HandleMessage(context.Background(), models.InboundMessage{
		Type:      models.MessageTypeText,
		Text:      "कल",
		SenderID:  phone,
		MessageID: "m1",
	})

	got := sessions.Get(phone)
	if got.Flow != string(FlowAppointment) || got.Step != stepSelectDate {
		t.Fatalf("panic must not move the session, got %s/%s", got.Flow, got.Step)
	}
	if got.Context["doctor"] != "singh" || got.Context["problem"] != "कान में दर्द" {
		t.Fatalf("panic must not drop collected context: %+v", got.Context)
	}

	if reply := notifier.lastTo(phone); !strings.Contains(reply, "menu") {
		t.Fatalf("expected the apology reply pointing at 'menu', got %q", reply)
	}
}

func TestZeroIsNotAGlobalCommand(t *testing.T) {
	bot := newTestBot(t)
	phone := "+919876500008"

	bot.text(phone, "hi")
	bot.text(phone, "7")
	bot.text(phone, "0") // invalid rating, not a menu shortcut

	sess := bot.sessions.Get(phone)
	if sess.Flow != string(FlowFeedback) || sess.Step != stepGetRating {
		t.Fatalf("0 mid-flow must re-prompt in place, got %s/%s", sess.Flow, sess.Step)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		msg  models.InboundMessage
		want string
	}{
		{"lowercases and trims", models.InboundMessage{Type: models.MessageTypeText, Text: "  MENU "}, "menu"},
		{"hindi passes through", models.InboundMessage{Type: models.MessageTypeText, Text: "नमस्ते"}, "नमस्ते"},
		{"button id verbatim", models.InboundMessage{Type: models.MessageTypeInteractive, ButtonReplyID: "SVC_Bill"}, "SVC_Bill"},
		{"list id verbatim", models.InboundMessage{Type: models.MessageTypeInteractive, ListReplyID: "svc_feedback"}, "svc_feedback"},
		{"unknown type empty", models.InboundMessage{Type: "image", Text: "photo"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.msg); got != tt.want {
				t.Fatalf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}
