package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rpl-hospital/carebot-backend/internal/models"
)

func TestTokenNumbersPerDoctorPerDate(t *testing.T) {
	store := NewMemoryStore()

	// Consecutive draws reserve distinct numbers even before any row lands
	first, err := store.NextTokenNumber("akhilesh", "2026-09-01")
	if err != nil {
		t.Fatalf("NextTokenNumber: %v", err)
	}
	if first != 1000 {
		t.Fatalf("first token = %d, want 1000", first)
	}
	second, _ := store.NextTokenNumber("akhilesh", "2026-09-01")
	if second != 1001 {
		t.Fatalf("second token = %d, want 1001", second)
	}

	// Other doctors and other dates keep their own counters
	if tok, _ := store.NextTokenNumber("anand", "2026-09-01"); tok != 1000 {
		t.Fatalf("anand token = %d, want 1000", tok)
	}
	if tok, _ := store.NextTokenNumber("akhilesh", "2026-09-02"); tok != 1000 {
		t.Fatalf("next-day token = %d, want 1000", tok)
	}
}

func TestTokenCounterPicksUpFromExistingRows(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		if _, err := store.CreateAppointment(&models.Appointment{
			Phone:     fmt.Sprintf("+9198765000%02d", i),
			DoctorKey: "akhilesh",
			Date:      "2026-09-01",
			Token:     1000 + i,
		}); err != nil {
			t.Fatalf("CreateAppointment: %v", err)
		}
	}

	tok, err := store.NextTokenNumber("akhilesh", "2026-09-01")
	if err != nil {
		t.Fatalf("NextTokenNumber: %v", err)
	}
	if tok != 1003 {
		t.Fatalf("token after 3 persisted bookings = %d, want 1003", tok)
	}
}

func TestTokenDrawsUniqueAcrossConcurrentCallers(t *testing.T) {
	store := NewMemoryStore()

	const callers = 25
	tokens := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := store.NextTokenNumber("akhilesh", "2026-09-01")
			if err != nil {
				t.Errorf("NextTokenNumber: %v", err)
				return
			}
			tokens <- tok
		}()
	}
	wg.Wait()
	close(tokens)

	seen := map[int]bool{}
	for tok := range tokens {
		if seen[tok] {
			t.Fatalf("token %d drawn twice", tok)
		}
		seen[tok] = true
	}
	if len(seen) != callers {
		t.Fatalf("expected %d distinct tokens, got %d", callers, len(seen))
	}
}

func TestCreatePatientUpsertsOnRepeatVisit(t *testing.T) {
	store := NewMemoryStore()
	phone := "+919876540001"

	first, err := store.CreatePatient(&models.PatientRegistration{
		Phone: phone,
		Name:  "सीता देवी",
		Age:   55,
	})
	if err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	if first.TotalVisits != 1 {
		t.Fatalf("TotalVisits = %d, want 1", first.TotalVisits)
	}

	second, err := store.CreatePatient(&models.PatientRegistration{Phone: phone, Name: "सीता देवी"})
	if err != nil {
		t.Fatalf("repeat CreatePatient: %v", err)
	}
	if second.TotalVisits != 2 {
		t.Fatalf("TotalVisits after revisit = %d, want 2", second.TotalVisits)
	}
	if second.LastVisit == nil {
		t.Fatal("LastVisit not stamped on revisit")
	}
}

func TestDailyStatsCountMessages(t *testing.T) {
	store := NewMemoryStore()
	date := "2026-08-29"

	for i := 0; i < 3; i++ {
		if err := store.LogMessage("+919876540002", "hi", date); err != nil {
			t.Fatalf("LogMessage: %v", err)
		}
	}
	if _, err := store.CreateFeedback(&models.Feedback{Phone: "+919876540002", Rating: 5}); err != nil {
		t.Fatalf("CreateFeedback: %v", err)
	}

	stats, err := store.GetDailyStats(date)
	if err != nil {
		t.Fatalf("GetDailyStats: %v", err)
	}
	if stats.Messages != 3 {
		t.Fatalf("Messages = %d, want 3", stats.Messages)
	}
}
