package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpl-hospital/carebot-backend/internal/models"
)

// Notifier is the outbound messaging gateway the conversation engine depends
// on. The flow code never touches the wire protocol directly.
type Notifier interface {
	SendText(to, text string) error
	SendList(to, body, buttonLabel string, sections []models.ListSection) error
	SendButtons(to, body string, buttons []models.Button) error
	MarkRead(messageID string) error
}

// TwilioNotifier sends WhatsApp messages via the Twilio API
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string // Twilio WhatsApp number, e.g. "whatsapp:+14155238886"

	// Content template SIDs for interactive messages; when unset the
	// interactive sends degrade to numbered plain text.
	listContentSid    string
	buttonsContentSid string
}

// NewTwilioNotifier creates a new Twilio-backed notifier
func NewTwilioNotifier() (*TwilioNotifier, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_WHATSAPP_FROM")

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioNotifier{
		client:            client,
		from:              from,
		listContentSid:    os.Getenv("TWILIO_LIST_CONTENT_SID"),
		buttonsContentSid: os.Getenv("TWILIO_BUTTONS_CONTENT_SID"),
	}, nil
}

// SendText sends a plain WhatsApp text message
func (t *TwilioNotifier) SendText(to, text string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetBody(text)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp message: %v", err)
		return err
	}

	log.Printf("✅ WhatsApp message sent! SID: %s", *resp.Sid)
	return nil
}

// SendList sends an interactive list message. Without a configured content
// template the sections are rendered as a numbered text menu instead.
func (t *TwilioNotifier) SendList(to, body, buttonLabel string, sections []models.ListSection) error {
	if t.listContentSid == "" {
		return t.SendText(to, renderListAsText(body, sections))
	}

	variables := map[string]string{"body": body, "button": buttonLabel}
	for i, section := range sections {
		for j, row := range section.Rows {
			variables[fmt.Sprintf("row_%d_%d", i, j)] = row.Title
		}
	}
	return t.sendContentTemplate(to, t.listContentSid, variables)
}

// SendButtons sends an interactive button message, degrading to numbered
// text when no content template is configured.
func (t *TwilioNotifier) SendButtons(to, body string, buttons []models.Button) error {
	if t.buttonsContentSid == "" {
		var b strings.Builder
		b.WriteString(body)
		b.WriteString("\n")
		for i, btn := range buttons {
			fmt.Fprintf(&b, "\n%d. %s", i+1, btn.Title)
		}
		return t.SendText(to, b.String())
	}

	variables := map[string]string{"body": body}
	for i, btn := range buttons {
		variables[fmt.Sprintf("button_%d", i)] = btn.Title
	}
	return t.sendContentTemplate(to, t.buttonsContentSid, variables)
}

// MarkRead is a no-op on this channel: Twilio's WhatsApp API has no
// read-receipt endpoint for inbound messages.
func (t *TwilioNotifier) MarkRead(messageID string) error {
	return nil
}

func (t *TwilioNotifier) sendContentTemplate(to, contentSid string, variables map[string]string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", to))
	params.SetContentSid(contentSid)

	if len(variables) > 0 {
		variablesJSON, err := json.Marshal(variables)
		if err != nil {
			log.Printf("❌ Failed to marshal content variables: %v", err)
			return err
		}
		params.SetContentVariables(string(variablesJSON))
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send WhatsApp template: %v", err)
		return err
	}

	log.Printf("✅ WhatsApp template sent! SID: %s, Content: %s", *resp.Sid, contentSid)
	return nil
}

func renderListAsText(body string, sections []models.ListSection) string {
	var b strings.Builder
	b.WriteString(body)
	n := 0
	for _, section := range sections {
		if section.Title != "" {
			fmt.Fprintf(&b, "\n\n*%s*", section.Title)
		}
		for _, row := range section.Rows {
			n++
			fmt.Fprintf(&b, "\n%d. %s", n, row.Title)
			if row.Description != "" {
				fmt.Fprintf(&b, " - %s", row.Description)
			}
		}
	}
	return b.String()
}
