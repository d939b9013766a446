package main

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/providerkit/analytics"
	apperrors "github.com/kbukum/providerkit/errors"
	"github.com/kbukum/providerkit/provider"
	"github.com/kbukum/providerkit/server"
)

type analyticsHandler struct {
	mgr    *analytics.Manager
	entity *provider.Entity[analytics.Provider]
}

type providerView struct {
	Name     string `json:"name"`
	Priority string `json:"priority"`
	Breaker  string `json:"breaker,omitempty"`
}

type providersResponse struct {
	Owner     string         `json:"owner"`
	Platform  string         `json:"platform"`
	State     string         `json:"state"`
	SessionID string         `json:"session_id"`
	Retained  []providerView `json:"retained"`
	Disposed  []string       `json:"disposed"`
}

type eventRequest struct {
	Name      string            `json:"name" binding:"required"`
	Params    map[string]string `json:"params"`
	Preferred bool              `json:"preferred"`
}

type eventResponse struct {
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
	Delivered int    `json:"delivered"`
}

func registerRoutes(r gin.IRoutes, h *analyticsHandler) {
	r.GET("/providers", h.listProviders)
	r.POST("/events", h.logEvent)
}

func (h *analyticsHandler) listProviders(c *gin.Context) {
	coord := h.mgr.Coordinator()
	resp := providersResponse{
		Owner:     coord.Name(),
		Platform:  string(coord.Platform()),
		State:     coord.State().String(),
		SessionID: h.mgr.SessionID(),
		Retained:  []providerView{},
		Disposed:  h.entity.Disposed(),
	}
	for p := range coord.AllProviders() {
		view := providerView{Name: p.Name(), Priority: p.Priority().String()}
		if state, ok := h.mgr.BreakerState(p.Name()); ok {
			view.Breaker = state.String()
		}
		resp.Retained = append(resp.Retained, view)
	}
	if resp.Disposed == nil {
		resp.Disposed = []string{}
	}
	server.RespondOK(c, resp)
}

func (h *analyticsHandler) logEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	delivered := h.mgr.Coordinator().Len()
	var err error
	if req.Preferred {
		err = h.mgr.LogEventToPreferred(ctx, req.Name, req.Params)
		delivered = 1
	} else {
		err = h.mgr.LogEvent(ctx, req.Name, req.Params)
	}
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondAccepted(c, eventResponse{Name: req.Name, SessionID: h.mgr.SessionID(), Delivered: delivered})
}
