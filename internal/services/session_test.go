package services

import (
	"testing"
	"time"

	"github.com/rpl-hospital/carebot-backend/internal/storage"
)

func newTestSessionStore(t *testing.T, ttl time.Duration) (*SessionStore, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	ss := NewSessionStore(store, ttl)
	t.Cleanup(ss.Stop)
	return ss, store
}

func TestSessionRoundTrip(t *testing.T) {
	ss, _ := newTestSessionStore(t, time.Minute)
	phone := "+919876533001"

	sess := NewDefaultSession(phone)
	sess.Flow = "appointment"
	sess.Step = "select_doctor"
	sess.Name = "रमेश"
	sess.Context["problem"] = "बुखार"
	ss.Set(phone, sess)

	got := ss.Get(phone)
	if got.Flow != "appointment" || got.Step != "select_doctor" {
		t.Fatalf("got %s/%s, want appointment/select_doctor", got.Flow, got.Step)
	}
	if got.Context["problem"] != "बुखार" {
		t.Fatalf("context lost: %+v", got.Context)
	}
}

func TestExpiredSessionYieldsDefault(t *testing.T) {
	ss, _ := newTestSessionStore(t, 30*time.Millisecond)
	phone := "+919876533002"

	sess := NewDefaultSession(phone)
	sess.Flow = "registration"
	sess.Step = "get_age"
	ss.Set(phone, sess)

	time.Sleep(50 * time.Millisecond)

	got := ss.Get(phone)
	if got.Flow != DefaultFlow || got.Step != DefaultStep {
		t.Fatalf("expected default session after expiry, got %s/%s", got.Flow, got.Step)
	}
}

func TestSetRefreshesTTL(t *testing.T) {
	ss, _ := newTestSessionStore(t, 60*time.Millisecond)
	phone := "+919876533003"

	sess := NewDefaultSession(phone)
	sess.Flow = "feedback"
	sess.Step = "get_rating"
	ss.Set(phone, sess)

	// Keep touching the session; the sliding window must keep it alive
	for i := 0; i < 3; i++ {
		time.Sleep(40 * time.Millisecond)
		got := ss.Get(phone)
		if got.Flow != "feedback" {
			t.Fatalf("session expired despite activity on touch %d", i)
		}
		ss.Set(phone, got)
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	store := storage.NewMemoryStore()
	ss := NewSessionStore(store, time.Minute)

	phone := "+919876533004"
	sess := NewDefaultSession(phone)
	sess.Flow = "appointment"
	sess.Step = "select_date"
	sess.Context["doctor"] = "singh"
	ss.Set(phone, sess)
	ss.Stop()

	// A fresh store over the same storage simulates a process restart
	ss2 := NewSessionStore(store, time.Minute)
	defer ss2.Stop()

	got := ss2.Get(phone)
	if got.Flow != "appointment" || got.Step != "select_date" {
		t.Fatalf("restart lost the session: %s/%s", got.Flow, got.Step)
	}
	if got.Context["doctor"] != "singh" {
		t.Fatalf("restart lost the context: %+v", got.Context)
	}
}

func TestClearRemovesSession(t *testing.T) {
	ss, store := newTestSessionStore(t, time.Minute)
	phone := "+919876533005"

	sess := NewDefaultSession(phone)
	sess.Flow = "bill"
	ss.Set(phone, sess)
	ss.Clear(phone)

	if got := ss.Get(phone); got.Flow != DefaultFlow {
		t.Fatalf("expected default after clear, got %q", got.Flow)
	}
	if _, err := store.GetSession(phone); err == nil {
		t.Fatal("expected the stored record gone after clear")
	}
}

func TestGetReturnsACopy(t *testing.T) {
	ss, _ := newTestSessionStore(t, time.Minute)
	phone := "+919876533006"

	sess := NewDefaultSession(phone)
	sess.Context["a"] = "1"
	ss.Set(phone, sess)

	first := ss.Get(phone)
	first.Context["a"] = "mutated"

	second := ss.Get(phone)
	if second.Context["a"] != "1" {
		t.Fatal("Get must hand out independent copies")
	}
}
