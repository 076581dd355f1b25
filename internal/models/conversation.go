package models

import "time"

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one message in a chat session. Turns live in memory
// for the lifetime of the session and are never persisted.
type ConversationTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatAnswer is the result of one question/answer round trip: the insight
// text plus the SQL that produced its context, if any.
type ChatAnswer struct {
	SessionID string       `json:"session_id"`
	Answer    string       `json:"answer"`
	SQL       string       `json:"sql,omitempty"`
	Result    *QueryResult `json:"result,omitempty"`
}
