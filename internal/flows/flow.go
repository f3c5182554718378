package flows

import (
	"context"

	"github.com/rpl-hospital/carebot-backend/internal/config"
	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/services"
	"github.com/rpl-hospital/carebot-backend/internal/storage"
)

// FlowID identifies one dialogue. The set is closed: the router constructs a
// handler for every identifier, so an unknown flow cannot be dispatched to.
type FlowID string

const (
	FlowMainMenu     FlowID = "main-menu"
	FlowAppointment  FlowID = "appointment"
	FlowRegistration FlowID = "registration"
	FlowFeedback     FlowID = "feedback"
	FlowLabReport    FlowID = "lab-report"
	FlowBill         FlowID = "bill"
	FlowDoctorInfo   FlowID = "doctor-info"
	FlowPrescription FlowID = "prescription"
	FlowEmergency    FlowID = "emergency"
)

// Effect is a side effect the router executes after persisting state and
// sending the reply (save a record, alert staff). Failures are logged, never
// surfaced to the patient.
type Effect func() error

// Reply is what gets sent back to the patient for one turn. Most replies are
// plain text; a flow may instead ask for an interactive list or buttons.
type Reply struct {
	Text        string
	ListButton  string
	ListBody    string
	List        []models.ListSection
	ButtonsBody string
	Buttons     []models.Button
}

// Text builds a plain-text reply
func Text(s string) Reply { return Reply{Text: s} }

// Result is the outcome of handling one dialogue turn
type Result struct {
	Reply    Reply
	NewState *services.Session
	Effects  []Effect
}

// Flow handles the dialogue turns of one topic. The input is already
// normalized (lower-cased trimmed text, or a button/list reply id verbatim).
// Handlers must be idempotent on invalid input: same step, re-prompt reply.
type Flow interface {
	Handle(ctx context.Context, input string, sess *services.Session) Result
}

// Deps bundles the collaborators every flow may need
type Deps struct {
	Store     storage.Store
	Assistant services.Assistant
	Staff     *services.StaffNotifier
	Config    *config.Config
}
