package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bingo-cards-backend/internal/bingo"
	"bingo-cards-backend/internal/draw"
)

type checkResponse struct {
	Card  bingo.Card `json:"card"`
	Line  bool       `json:"line"`
	Bingo bool       `json:"bingo"`
	Drawn int        `json:"drawn"`
}

// lookupCard resolves :id and :number to a card, writing the error response itself.
func (h *Handler) lookupCard(c *gin.Context) (bingo.Card, bool) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "card number must be an integer"})
		return bingo.Card{}, false
	}

	game, err := h.store.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return bingo.Card{}, false
	}

	card, ok := game.CardByNumber(number)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return bingo.Card{}, false
	}
	return card, true
}

// GetCard handles GET /api/games/:id/cards/:number.
func (h *Handler) GetCard(c *gin.Context) {
	card, ok := h.lookupCard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, card)
}

// CheckCard handles GET /api/games/:id/cards/:number/check against the current draw.
func (h *Handler) CheckCard(c *gin.Context) {
	card, ok := h.lookupCard(c)
	if !ok {
		return
	}

	numbers, err := h.store.Draws(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	drawn := draw.NewSet(numbers)
	c.JSON(http.StatusOK, checkResponse{
		Card:  card,
		Line:  draw.HasLine(card.Cells, drawn),
		Bingo: draw.HasBingo(card.Cells, drawn),
		Drawn: len(numbers),
	})
}
