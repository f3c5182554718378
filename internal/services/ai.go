package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rpl-hospital/carebot-backend/internal/models"
)

// SuggestionConfidenceThreshold is the minimum model confidence below which
// the deterministic keyword fallback takes over.
const SuggestionConfidenceThreshold = 0.6

const groqBaseURL = "https://api.groq.com/openai/v1"

// Intent identifiers produced by intent analysis
const (
	IntentAppointment  = "appointment"
	IntentLabReport    = "lab_report"
	IntentPrescription = "prescription"
	IntentBill         = "bill"
	IntentDoctorInfo   = "doctor_info"
	IntentFeedback     = "feedback"
	IntentRegistration = "registration"
	IntentEmergency    = "emergency"
	IntentGeneral      = "general"
)

// DoctorSuggestion is the advisory triage result for a problem description
type DoctorSuggestion struct {
	DoctorKey  string  `json:"suggested_doctor"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// Intent is the detected purpose of a free-text message
type Intent struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Assistant analyzes patient messages. Results are advisory: callers must
// survive an unavailable assistant.
type Assistant interface {
	SuggestDoctor(ctx context.Context, problem string, catalog []models.Doctor) (DoctorSuggestion, error)
	AnalyzeIntent(ctx context.Context, text string) (Intent, error)
}

// GroqAssistant calls Groq's OpenAI-compatible chat completions API
type GroqAssistant struct {
	client *openai.Client
	model  string
}

// NewGroqAssistant builds an assistant backed by Groq. Returns nil when no
// API key is configured; the caller should fall back to keywords.
func NewGroqAssistant(apiKey, model string) *GroqAssistant {
	if apiKey == "" {
		return nil
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	return &GroqAssistant{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// SuggestDoctor asks the model to match the problem to a catalog doctor
func (g *GroqAssistant) SuggestDoctor(ctx context.Context, problem string, catalog []models.Doctor) (DoctorSuggestion, error) {
	var doctors strings.Builder
	for _, d := range catalog {
		fmt.Fprintf(&doctors, "- %s: %s (%s)\n", d.Key, d.Name, d.Specialty)
	}

	prompt := fmt.Sprintf(`You are a medical triage assistant. Based on the patient's problem, suggest the most appropriate doctor.

Patient's Problem: %q

Available Doctors:
%s
Respond with ONLY a JSON object:
{"suggested_doctor": "doctor_key", "reason": "brief reason in Hindi", "confidence": 0.0-1.0}`, problem, doctors.String())

	content, err := g.complete(ctx, prompt, 150)
	if err != nil {
		return DoctorSuggestion{}, err
	}

	var suggestion DoctorSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return DoctorSuggestion{}, fmt.Errorf("unparseable suggestion %q: %w", content, err)
	}
	if _, ok := models.DoctorByKey(suggestion.DoctorKey); !ok {
		return DoctorSuggestion{}, fmt.Errorf("suggestion names unknown doctor %q", suggestion.DoctorKey)
	}
	return suggestion, nil
}

// AnalyzeIntent classifies a free-text message into one of the known intents
func (g *GroqAssistant) AnalyzeIntent(ctx context.Context, text string) (Intent, error) {
	prompt := fmt.Sprintf(`You are a hospital receptionist AI. Analyze this patient message and determine their intent.

Patient Message: %q

Respond with ONLY a JSON object:
{"intent": "appointment|lab_report|prescription|bill|doctor_info|emergency|feedback|registration|general", "confidence": 0.0-1.0}`, text)

	content, err := g.complete(ctx, prompt, 200)
	if err != nil {
		return Intent{}, err
	}

	var intent Intent
	if err := json.Unmarshal([]byte(content), &intent); err != nil {
		return Intent{}, fmt.Errorf("unparseable intent %q: %w", content, err)
	}
	return intent, nil
}

func (g *GroqAssistant) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// KeywordAssistant is the deterministic fallback: keyword tables, no network
type KeywordAssistant struct{}

// SuggestDoctor matches the problem text against each doctor's keyword list
func (KeywordAssistant) SuggestDoctor(_ context.Context, problem string, catalog []models.Doctor) (DoctorSuggestion, error) {
	lower := strings.ToLower(problem)

	best := -1
	bestHits := 0
	for i, d := range catalog {
		hits := 0
		for _, kw := range d.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}

	if best < 0 {
		d := models.DefaultDoctor()
		return DoctorSuggestion{DoctorKey: d.Key, Reason: "सामान्य रोग विशेषज्ञ", Confidence: 0.5}, nil
	}
	d := catalog[best]
	return DoctorSuggestion{DoctorKey: d.Key, Reason: d.Specialty + " विशेषज्ञ", Confidence: 0.8}, nil
}

var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{IntentEmergency, []string{"emergency", "urgent", "accident", "एक्सीडेंट", "खून", "बेहोश", "गंभीर"}},
	{IntentAppointment, []string{"appointment", "book", "doctor", "डॉक्टर", "मिलना", "बुक", "अपॉइंटमेंट"}},
	{IntentLabReport, []string{"report", "रिपोर्ट", "test", "टेस्ट", "lab", "लैब", "जांच"}},
	{IntentPrescription, []string{"prescription", "दवा", "medicine", "मेडिसिन", "प्रिस्क्रिप्शन"}},
	{IntentBill, []string{"bill", "बिल", "payment", "पेमेंट", "pay", "भुगतान"}},
	{IntentFeedback, []string{"feedback", "फीडबैक", "शिकायत", "rating", "रेटिंग", "complaint"}},
	{IntentRegistration, []string{"registration", "register", "पंजीकरण", "रजिस्टर", "नया मरीज"}},
	{IntentDoctorInfo, []string{"doctor info", "timing", "समय", "जानकारी", "कौन डॉक्टर", "specialist"}},
}

// AnalyzeIntent classifies the message with the keyword tables
func (KeywordAssistant) AnalyzeIntent(_ context.Context, text string) (Intent, error) {
	lower := strings.ToLower(text)
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				confidence := 0.8
				if entry.intent == IntentEmergency {
					confidence = 0.9
				}
				return Intent{Intent: entry.intent, Confidence: confidence}, nil
			}
		}
	}
	return Intent{Intent: IntentGeneral, Confidence: 0.5}, nil
}

// TieredAssistant consults the primary model and falls back to keywords when
// the model errors out or is not confident enough. It never returns an error,
// so flow code can treat suggestions as always available.
type TieredAssistant struct {
	Primary  Assistant
	Fallback KeywordAssistant
}

// NewTieredAssistant wires the Groq assistant (possibly nil) over keywords
func NewTieredAssistant(primary Assistant) *TieredAssistant {
	return &TieredAssistant{Primary: primary}
}

func (t *TieredAssistant) SuggestDoctor(ctx context.Context, problem string, catalog []models.Doctor) (DoctorSuggestion, error) {
	if t.Primary != nil {
		suggestion, err := t.Primary.SuggestDoctor(ctx, problem, catalog)
		if err == nil && suggestion.Confidence >= SuggestionConfidenceThreshold {
			return suggestion, nil
		}
		if err != nil {
			log.Printf("⚠️  AI doctor suggestion failed, using keyword fallback: %v", err)
		}
	}
	return t.Fallback.SuggestDoctor(ctx, problem, catalog)
}

func (t *TieredAssistant) AnalyzeIntent(ctx context.Context, text string) (Intent, error) {
	if t.Primary != nil {
		intent, err := t.Primary.AnalyzeIntent(ctx, text)
		if err == nil {
			return intent, nil
		}
		log.Printf("⚠️  AI intent analysis failed, using keyword fallback: %v", err)
	}
	return t.Fallback.AnalyzeIntent(ctx, text)
}
