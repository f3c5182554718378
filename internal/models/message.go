package models

// Inbound message types
const (
	MessageTypeText        = "text"
	MessageTypeInteractive = "interactive"
)

// InboundMessage is the normalized shape of one incoming WhatsApp message,
// independent of the webhook wire format that produced it.
type InboundMessage struct {
	Type          string `json:"type"` // text | interactive
	Text          string `json:"text,omitempty"`
	ButtonReplyID string `json:"button_reply_id,omitempty"`
	ListReplyID   string `json:"list_reply_id,omitempty"`
	SenderID      string `json:"sender_id"` // phone number
	SenderName    string `json:"sender_name,omitempty"`
	MessageID     string `json:"message_id"`
}

// Button is one reply button on an interactive message
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListRow is one selectable row inside a list section
type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ListSection groups rows of an interactive list message
type ListSection struct {
	Title string    `json:"title"`
	Rows  []ListRow `json:"rows"`
}
