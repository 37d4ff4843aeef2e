package dto

import (
	"time"

	"onboarding/internal/domain/wizard"
)

// OpenSessionRequest optionally resumes a previously persisted session.
type OpenSessionRequest struct {
	SessionID string `json:"sessionId,omitempty"`
}

// SessionResponse is returned when a session is opened.
type SessionResponse struct {
	SessionID string        `json:"sessionId"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	State     *wizard.State `json:"state"`
}
