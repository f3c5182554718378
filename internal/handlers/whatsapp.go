package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rpl-hospital/carebot-backend/internal/config"
	"github.com/rpl-hospital/carebot-backend/internal/flows"
	"github.com/rpl-hospital/carebot-backend/internal/models"
)

// WhatsAppHandler receives Twilio webhook calls and feeds them to the router
type WhatsAppHandler struct {
	router *flows.Router
	cfg    *config.Config
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(router *flows.Router, cfg *config.Config) *WhatsAppHandler {
	return &WhatsAppHandler{router: router, cfg: cfg}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid  string `form:"MessageSid"`
	AccountSid  string `form:"AccountSid"`
	From        string `form:"From"` // whatsapp:+919876543210
	To          string `form:"To"`
	Body        string `form:"Body"`
	ProfileName string `form:"ProfileName"`

	// Interactive replies
	ButtonPayload string `form:"ButtonPayload"`
	ButtonText    string `form:"ButtonText"`
	ListId        string `form:"ListId"`
	ListTitle     string `form:"ListTitle"`

	NumMedia      string `form:"NumMedia"`
	MessageStatus string `form:"MessageStatus"` // present on status callbacks
}

// HandleWebhook processes incoming WhatsApp messages. Status callbacks and
// payloads with nothing routable get a 200 and are dropped.
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("❌ webhook parse failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payload.MessageStatus != "" {
		return c.SendStatus(fiber.StatusOK)
	}

	msg := payloadToMessage(payload)
	log.Printf("📱 WhatsApp message from %s: %s", msg.SenderID, payload.Body)

	h.router.HandleMessage(context.Background(), msg)
	return c.SendStatus(fiber.StatusOK)
}

// HandleVerification answers the webhook verification challenge some
// WhatsApp gateways issue on setup.
func (h *WhatsAppHandler) HandleVerification(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.cfg.VerifyToken {
		return c.SendString(challenge)
	}
	return c.SendStatus(fiber.StatusForbidden)
}

func payloadToMessage(p TwilioWebhookPayload) models.InboundMessage {
	msg := models.InboundMessage{
		Type:       models.MessageTypeText,
		Text:       p.Body,
		SenderID:   strings.TrimPrefix(p.From, "whatsapp:"),
		SenderName: p.ProfileName,
		MessageID:  p.MessageSid,
	}
	if p.ButtonPayload != "" || p.ListId != "" {
		msg.Type = models.MessageTypeInteractive
		msg.ButtonReplyID = p.ButtonPayload
		msg.ListReplyID = p.ListId
	}
	return msg
}

// TestWebhookPayload lets developers drive the bot without Twilio
type TestWebhookPayload struct {
	From    string `json:"from"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test messages (for development)
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Printf("🧪 Test webhook from %s: %s", payload.From, payload.Message)

	h.router.HandleMessage(context.Background(), models.InboundMessage{
		Type:       models.MessageTypeText,
		Text:       payload.Message,
		SenderID:   payload.From,
		SenderName: payload.Name,
		MessageID:  "test",
	})

	return c.JSON(fiber.Map{"success": true})
}
