package handlers

import (
	"testing"

	"github.com/rpl-hospital/carebot-backend/internal/models"
)

func TestPayloadToMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload TwilioWebhookPayload
		want    models.InboundMessage
	}{
		{
			name: "plain text",
			payload: TwilioWebhookPayload{
				MessageSid:  "SM123",
				From:        "whatsapp:+919876543210",
				Body:        "hello",
				ProfileName: "Ramesh",
			},
			want: models.InboundMessage{
				Type:       models.MessageTypeText,
				Text:       "hello",
				SenderID:   "+919876543210",
				SenderName: "Ramesh",
				MessageID:  "SM123",
			},
		},
		{
			name: "list reply",
			payload: TwilioWebhookPayload{
				MessageSid: "SM124",
				From:       "whatsapp:+919876543210",
				ListId:     "svc_appointment",
			},
			want: models.InboundMessage{
				Type:        models.MessageTypeInteractive,
				ListReplyID: "svc_appointment",
				SenderID:    "+919876543210",
				MessageID:   "SM124",
			},
		},
		{
			name: "button reply",
			payload: TwilioWebhookPayload{
				MessageSid:    "SM125",
				From:          "whatsapp:+919876543210",
				Body:          "हां",
				ButtonPayload: "confirm_yes",
			},
			want: models.InboundMessage{
				Type:          models.MessageTypeInteractive,
				Text:          "हां",
				ButtonReplyID: "confirm_yes",
				SenderID:      "+919876543210",
				MessageID:     "SM125",
			},
		},
		{
			name: "bare number without prefix",
			payload: TwilioWebhookPayload{
				MessageSid: "SM126",
				From:       "+919876543210",
				Body:       "1",
			},
			want: models.InboundMessage{
				Type:      models.MessageTypeText,
				Text:      "1",
				SenderID:  "+919876543210",
				MessageID: "SM126",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := payloadToMessage(tt.payload); got != tt.want {
				t.Fatalf("payloadToMessage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
