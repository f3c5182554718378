package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rpl-hospital/carebot-backend/internal/models"
)

func TestKeywordSuggestDoctor(t *testing.T) {
	tests := []struct {
		name    string
		problem string
		wantKey string
	}{
		{"fever goes to general medicine", "मुझे तेज बुखार है", "akhilesh"},
		{"sugar goes to general medicine", "sugar badh gayi hai", "akhilesh"},
		{"headache keywords go to neurology", "dimag me dard", "ankit"},
		{"throat goes to ent", "गला खराब है", "singh"},
		{"tooth goes to dental", "दांत में दर्द", "anand"},
		{"unknown defaults to first doctor", "कुछ समझ नहीं आ रहा", "akhilesh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeywordAssistant{}.SuggestDoctor(context.Background(), tt.problem, models.Catalog())
			if err != nil {
				t.Fatalf("SuggestDoctor: %v", err)
			}
			if got.DoctorKey != tt.wantKey {
				t.Fatalf("DoctorKey = %q, want %q", got.DoctorKey, tt.wantKey)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Fatalf("confidence %v out of range", got.Confidence)
			}
		})
	}
}

func TestKeywordAnalyzeIntent(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"appointment book karna hai", IntentAppointment},
		{"मेरी रिपोर्ट आई क्या", IntentLabReport},
		{"bill kitna hua", IntentBill},
		{"दवा का रिमाइंडर", IntentPrescription},
		{"accident ho gaya", IntentEmergency},
		{"kuch bhi", IntentGeneral},
	}
	for _, tt := range tests {
		got, err := KeywordAssistant{}.AnalyzeIntent(context.Background(), tt.text)
		if err != nil {
			t.Fatalf("AnalyzeIntent(%q): %v", tt.text, err)
		}
		if got.Intent != tt.want {
			t.Fatalf("AnalyzeIntent(%q) = %q, want %q", tt.text, got.Intent, tt.want)
		}
	}
}

type failingAssistant struct{}

func (failingAssistant) SuggestDoctor(context.Context, string, []models.Doctor) (DoctorSuggestion, error) {
	return DoctorSuggestion{}, errors.New("model unavailable")
}

func (failingAssistant) AnalyzeIntent(context.Context, string) (Intent, error) {
	return Intent{}, errors.New("model unavailable")
}

type vagueAssistant struct{}

func (vagueAssistant) SuggestDoctor(context.Context, string, []models.Doctor) (DoctorSuggestion, error) {
	return DoctorSuggestion{DoctorKey: "ankit", Confidence: 0.2}, nil
}

func (vagueAssistant) AnalyzeIntent(context.Context, string) (Intent, error) {
	return Intent{Intent: IntentGeneral, Confidence: 0.1}, nil
}

func TestTieredAssistantFallsBackOnError(t *testing.T) {
	tiered := NewTieredAssistant(failingAssistant{})

	got, err := tiered.SuggestDoctor(context.Background(), "दांत में दर्द", models.Catalog())
	if err != nil {
		t.Fatalf("tiered assistant must not surface errors: %v", err)
	}
	if got.DoctorKey != "anand" {
		t.Fatalf("expected keyword fallback to anand, got %q", got.DoctorKey)
	}
}

func TestTieredAssistantFallsBackOnLowConfidence(t *testing.T) {
	tiered := NewTieredAssistant(vagueAssistant{})

	got, err := tiered.SuggestDoctor(context.Background(), "गला खराब है", models.Catalog())
	if err != nil {
		t.Fatalf("SuggestDoctor: %v", err)
	}
	if got.DoctorKey != "singh" {
		t.Fatalf("low-confidence model answer must yield keyword result, got %q", got.DoctorKey)
	}
}

func TestTieredAssistantNilPrimary(t *testing.T) {
	tiered := NewTieredAssistant(nil)

	got, err := tiered.AnalyzeIntent(context.Background(), "appointment chahiye")
	if err != nil {
		t.Fatalf("AnalyzeIntent: %v", err)
	}
	if got.Intent != IntentAppointment {
		t.Fatalf("expected appointment intent, got %q", got.Intent)
	}
}
