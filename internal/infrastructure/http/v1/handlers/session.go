package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"onboarding/internal/core/apperror"
	"onboarding/internal/core/id"
	"onboarding/internal/domain/session"
	"onboarding/internal/domain/wizard"
	"onboarding/internal/infrastructure/http/v1/dto"
)

// SessionHandler opens wizard sessions and issues their tokens.
type SessionHandler struct {
	*BaseHandler
	wizard *wizard.Service
	tokens *session.TokenService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(base *BaseHandler, svc *wizard.Service, tokens *session.TokenService) *SessionHandler {
	return &SessionHandler{
		BaseHandler: base,
		wizard:      svc,
		tokens:      tokens,
	}
}

// Open handles POST /api/v1/sessions
// An empty body starts a new session; a sessionId resumes a persisted one.
func (h *SessionHandler) Open(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.Error(c, apperror.NewInvalidInput("invalid request body").WithDetail("error", err.Error()))
		return
	}

	sid := req.SessionID
	if sid == "" {
		sid = id.NewSession()
	} else if !id.ValidSession(sid) {
		h.Error(c, apperror.NewValidation("malformed session id").WithDetail("sessionId", sid))
		return
	}

	state, err := h.wizard.Open(ctx, sid)
	if err != nil {
		h.Error(c, err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(sid)
	if err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}

	h.Created(c, dto.SessionResponse{
		SessionID: sid,
		Token:     token,
		ExpiresAt: expiresAt,
		State:     state,
	})
}
