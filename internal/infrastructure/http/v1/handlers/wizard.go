package handlers

import (
	"github.com/gin-gonic/gin"

	"onboarding/internal/domain/wizard"
	"onboarding/internal/infrastructure/http/v1/dto"
)

// WizardHandler exposes wizard session operations.
type WizardHandler struct {
	*BaseHandler
	service *wizard.Service
}

// NewWizardHandler creates a new wizard handler.
func NewWizardHandler(base *BaseHandler, service *wizard.Service) *WizardHandler {
	return &WizardHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes registers wizard routes on a session-authenticated group.
func (h *WizardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/state", h.State)
	rg.POST("/navigate", h.Navigate)
	rg.POST("/next", h.Next)
	rg.POST("/previous", h.Previous)
	rg.PUT("/modes", h.SetModes)
	rg.POST("/panels/toggle", h.TogglePanel)
	rg.GET("/entities/:id/fields", h.GetFields)
	rg.PATCH("/entities/:id/fields", h.UpdateFields)
	rg.PUT("/entities/:id/fields", h.ReplaceFields)
	rg.DELETE("", h.Close)
}

// State handles GET /wizard/state
func (h *WizardHandler) State(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}
	h.respond(c)(h.service.State(c.Request.Context(), sid))
}

// Navigate handles POST /wizard/navigate
func (h *WizardHandler) Navigate(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}

	var req dto.NavigateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.respond(c)(h.service.Navigate(c.Request.Context(), sid, req.ToRequest()))
}

// Next handles POST /wizard/next
func (h *WizardHandler) Next(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}
	h.respond(c)(h.service.Next(c.Request.Context(), sid))
}

// Previous handles POST /wizard/previous
func (h *WizardHandler) Previous(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}
	h.respond(c)(h.service.Previous(c.Request.Context(), sid))
}

// SetModes handles PUT /wizard/modes
func (h *WizardHandler) SetModes(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}

	var req dto.ModesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.respond(c)(h.service.SetModes(c.Request.Context(), sid, req.ToModes()))
}

// TogglePanel handles POST /wizard/panels/toggle
func (h *WizardHandler) TogglePanel(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}

	var req dto.TogglePanelRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.respond(c)(h.service.TogglePanel(c.Request.Context(), sid, req.GroupValue(), *req.Index))
}

// GetFields handles GET /wizard/entities/:id/fields
func (h *WizardHandler) GetFields(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}

	entityID := c.Param("id")
	dict, err := h.service.Fields(c.Request.Context(), sid, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FieldsResponse{EntityID: entityID, Fields: dict})
}

// UpdateFields handles PATCH /wizard/entities/:id/fields
func (h *WizardHandler) UpdateFields(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}

	var req dto.FieldsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.respond(c)(h.service.UpdateFields(c.Request.Context(), sid, c.Param("id"), req.Fields))
}

// ReplaceFields handles PUT /wizard/entities/:id/fields
func (h *WizardHandler) ReplaceFields(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}

	var req dto.FieldsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.respond(c)(h.service.ReplaceFields(c.Request.Context(), sid, c.Param("id"), req.Fields))
}

// Close handles DELETE /wizard
func (h *WizardHandler) Close(c *gin.Context) {
	sid, ok := h.SessionID(c)
	if !ok {
		return
	}

	if err := h.service.Close(c.Request.Context(), sid); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// respond writes the state or registers the error.
func (h *WizardHandler) respond(c *gin.Context) func(*wizard.State, error) {
	return func(st *wizard.State, err error) {
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, st)
	}
}
