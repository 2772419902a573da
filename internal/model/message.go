// Package model defines data structures for the team bot.
package model

// Attachment is a GroupMe message attachment. Only the "mentions" type
// carries user IDs; everything else is matched by tag and ignored.
type Attachment struct {
	Type    string   `json:"type"`
	UserIDs []string `json:"user_ids"`
	Loci    [][]int  `json:"loci"`
}

// InboundMessage is the GroupMe webhook callback payload.
type InboundMessage struct {
	Text        string       `json:"text"`
	SenderType  string       `json:"sender_type"`
	Name        string       `json:"name"`
	UserID      string       `json:"user_id"`
	Attachments []Attachment `json:"attachments"`
}

// MessageInfo is a message returned by the GroupMe group messages API.
type MessageInfo struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Name       string `json:"name"`
	UserID     string `json:"user_id"`
	SenderType string `json:"sender_type"`
	CreatedAt  int64  `json:"created_at"`
}

// PostMessage is the outbound bot post payload.
type PostMessage struct {
	BotID string `json:"bot_id"`
	Text  string `json:"text"`
}
