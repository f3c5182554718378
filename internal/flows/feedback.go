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
	stepGetRating   = "get_rating"
	stepGetFeedback = "get_feedback"
)

// FeedbackFlow asks for a 1-5 rating and an optional comment
type FeedbackFlow struct {
	deps Deps
}

func NewFeedbackFlow(deps Deps) *FeedbackFlow {
	return &FeedbackFlow{deps: deps}
}

func (f *FeedbackFlow) Handle(_ context.Context, input string, sess *services.Session) Result {
	switch sess.Step {
	case stepGetRating:
		return f.getRating(input, sess)
	case stepGetFeedback:
		return f.save(input, sess)
	default:
		sess.Step = stepGetRating
		return Result{
			Reply:    Text("आपका फीडबैक हमारे लिए कीमती है! 🙏\n\nहमारी सेवा को 1 से 5 तक रेटिंग दें:\n\n⭐ 1 - बहुत खराब\n⭐⭐⭐ 3 - ठीक-ठाक\n⭐⭐⭐⭐⭐ 5 - बहुत अच्छी"),
			NewState: sess,
		}
	}
}

func (f *FeedbackFlow) getRating(input string, sess *services.Session) Result {
	rating, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || rating < 1 || rating > 5 {
		return Result{
			Reply:    Text("कृपया 1 से 5 के बीच की संख्या भेजें। 🙏"),
			NewState: sess,
		}
	}
	sess.Context["rating"] = strconv.Itoa(rating)
	sess.Step = stepGetFeedback
	return Result{
		Reply:    Text(fmt.Sprintf("%s धन्यवाद!\n\nकुछ और बताना चाहें तो लिखें, नहीं तो 'skip' भेजें:", strings.Repeat("⭐", rating))),
		NewState: sess,
	}
}

func (f *FeedbackFlow) save(input string, sess *services.Session) Result {
	text := strings.TrimSpace(input)
	if text == "skip" {
		text = ""
	}
	rating, _ := strconv.Atoi(sess.Context["rating"])
	fb := &models.Feedback{
		Phone:       sess.Phone,
		PatientName: sess.Name,
		Rating:      rating,
		Text:        text,
	}

	next := services.NewDefaultSession(sess.Phone)
	next.Name = sess.Name

	return Result{
		Reply:    Text("🙏 आपके फीडबैक के लिए धन्यवाद!\n\nहम आपकी सेवा और बेहतर करने की कोशिश करेंगे।\n\n'menu' भेजकर मुख्य मेन्यू पर जाएं।"),
		NewState: next,
		Effects: []Effect{
			func() error {
				if _, err := f.deps.Store.CreateFeedback(fb); err != nil {
					return fmt.Errorf("feedback from %s not persisted: %w", fb.Phone, err)
				}
				f.deps.Staff.NotifyFeedback(fb.Phone, fb.PatientName, fb.Rating, fb.Text)
				return nil
			},
		},
	}
}
