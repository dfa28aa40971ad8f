package types

import "time"

// DefaultSessionID is used for callers that do not identify themselves.
const DefaultSessionID = "default"

// Session is the continuation record of one caller: the last task that
// ran, the prompt it was given and everything generated for it so far.
type Session struct {
	ID         string    `json:"id" bson:"id"`
	LastTask   string    `json:"last_task,omitempty" bson:"last_task,omitempty"`
	LastPrompt string    `json:"last_prompt,omitempty" bson:"last_prompt,omitempty"`
	LastOutput string    `json:"last_output" bson:"last_output"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// CanContinue reports whether a previous task left enough state behind to
// resume generation.
func (s *Session) CanContinue() bool {
	return s.LastTask != "" && s.LastPrompt != ""
}

// IsEmpty reports whether nothing has run in this session yet.
func (s *Session) IsEmpty() bool {
	return s.LastTask == "" && s.LastPrompt == "" && s.LastOutput == ""
}
