package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bingo-cards-backend/internal/hub"
)

type addDrawRequest struct {
	Number *int `json:"number" binding:"required"`
}

type drawsResponse struct {
	Drawn []int `json:"drawn"`
}

// ListDraws handles GET /api/games/:id/draws.
func (h *Handler) ListDraws(c *gin.Context) {
	numbers, err := h.store.Draws(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, drawsResponse{Drawn: numbers})
}

// AddDraw handles POST /api/games/:id/draws.
func (h *Handler) AddDraw(c *gin.Context) {
	var req addDrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id := c.Param("id")
	numbers, err := h.store.AppendDraw(c.Request.Context(), id, *req.Number)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.hub.ToGame(id, hub.Event{Type: hub.EventDraw, Number: *req.Number, Drawn: numbers}); err != nil {
		h.log.Warnw("failed to broadcast draw", "game", id, "error", err)
	}
	c.JSON(http.StatusCreated, drawsResponse{Drawn: numbers})
}

// ResetDraws handles DELETE /api/games/:id/draws: restart the game.
func (h *Handler) ResetDraws(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.ResetDraws(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.hub.ToGame(id, hub.Event{Type: hub.EventReset, Drawn: []int{}}); err != nil {
		h.log.Warnw("failed to broadcast reset", "game", id, "error", err)
	}
	c.Status(http.StatusNoContent)
}

// WatchDraws handles GET /ws/games/:id, streaming draw events over a websocket.
func (h *Handler) WatchDraws(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.Draws(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "game", id, "error", err)
		return
	}
	h.hub.Register(ws, id)
}
