package handler

import (
	"context"

	agentapp "github.com/agentdesk/backend/internal/application/agent"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AgentHandler handles agent account endpoints
type AgentHandler struct {
	BaseHandler
	agentService *agentapp.Service
}

// NewAgentHandler creates a new AgentHandler
func NewAgentHandler(agentService *agentapp.Service) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// RegisterRoutes registers agent routes
func (h *AgentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	agents := rg.Group("/agents")
	{
		agents.POST("", h.Create)
		agents.GET("", h.List)
		agents.GET("/:id", h.Get)
		agents.GET("/code/:code", h.GetByCode)
		agents.PUT("/:id", h.Update)
		agents.POST("/:id/enable", h.Enable)
		agents.POST("/:id/disable", h.Disable)
		agents.POST("/:id/freeze", h.Freeze)
		agents.DELETE("/:id", h.Delete)
	}
}

// Create registers a new agent account
func (h *AgentHandler) Create(c *gin.Context) {
	var req agentapp.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.agentService.CreateAgent(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns agents with pagination and filtering
func (h *AgentHandler) List(c *gin.Context) {
	var filter agentapp.AgentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.agentService.ListAgents(c.Request.Context(), &filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one agent by ID
func (h *AgentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid agent ID")
		return
	}

	resp, err := h.agentService.GetAgent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByCode returns one agent by its business code
func (h *AgentHandler) GetByCode(c *gin.Context) {
	resp, err := h.agentService.GetAgentByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update modifies an agent's editable fields
func (h *AgentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid agent ID")
		return
	}

	var req agentapp.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.agentService.UpdateAgent(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Enable reactivates an agent
func (h *AgentHandler) Enable(c *gin.Context) {
	h.transition(c, h.agentService.EnableAgent)
}

// Disable deactivates an agent
func (h *AgentHandler) Disable(c *gin.Context) {
	h.transition(c, h.agentService.DisableAgent)
}

// Freeze suspends an agent pending review
func (h *AgentHandler) Freeze(c *gin.Context) {
	h.transition(c, h.agentService.FreezeAgent)
}

// Delete removes an agent account
func (h *AgentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid agent ID")
		return
	}

	if err := h.agentService.DeleteAgent(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *AgentHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*agentapp.AgentResponse, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid agent ID")
		return
	}

	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
