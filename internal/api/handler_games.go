package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"bingo-cards-backend/internal/bingo"
	"bingo-cards-backend/internal/codec"
	"bingo-cards-backend/internal/upload"
)

// maxNameLen matches the width of the stored game tag.
const maxNameLen = 256

type createGameRequest struct {
	Name  string `json:"name"`
	Count *int   `json:"count" binding:"required,min=0"`
}

// CreateGame handles POST /api/games: generate and store a new batch.
func (h *Handler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if *req.Count > h.gen.MaxCount {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("count must not exceed %d", h.gen.MaxCount)})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = h.gen.DefaultHeader
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("name must not exceed %d characters", maxNameLen)})
		return
	}

	game := bingo.NewGame(bingo.GameID(name), *req.Count, h.src)
	summary, err := h.store.SaveGame(c.Request.Context(), game)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Infow("generated game", "id", summary.ID, "name", name, "cards", summary.CardCount)
	c.JSON(http.StatusCreated, summary)
}

// ImportGame handles POST /api/games/import with a multipart "file" field.
func (h *Handler) ImportGame(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	gameID := codec.GameIDFromFilename(fh.Filename)
	if utf8.RuneCountInString(string(gameID)) > maxNameLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("filename must not exceed %d characters", maxNameLen)})
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.respondError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer f.Close()

	// Read one byte past the limit so oversize uploads are detected.
	data, err := io.ReadAll(io.LimitReader(f, int64(h.validator.MaxBytes)+1))
	if err != nil {
		h.respondError(c, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	file := upload.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}
	if err := h.validator.Validate(file); err != nil {
		h.log.Warnw("rejected upload", "filename", fh.Filename, "error", err)
		h.respondError(c, err)
		return
	}

	game, err := codec.Parse(gameID, string(data))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	for _, card := range game.Cards {
		if err := bingo.Check(card.Cells); err != nil {
			h.log.Warnw("imported card breaks layout rules", "filename", fh.Filename, "card", card.Number, "error", err)
		}
	}

	summary, err := h.store.SaveGame(c.Request.Context(), game)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Infow("imported game", "id", summary.ID, "filename", fh.Filename, "cards", summary.CardCount)
	c.JSON(http.StatusCreated, summary)
}

// ListGames handles GET /api/games.
func (h *Handler) ListGames(c *gin.Context) {
	games, err := h.store.ListGames(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame handles GET /api/games/:id.
func (h *Handler) GetGame(c *gin.Context) {
	game, err := h.store.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// DeleteGame handles DELETE /api/games/:id.
func (h *Handler) DeleteGame(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteGame(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	h.Evict(id)
	c.Status(http.StatusNoContent)
}

// Evict drops cached responses and closes watchers of a game that no longer exists.
func (h *Handler) Evict(id string) {
	h.cache.InvalidatePrefix("/api/games/" + id)
	h.hub.Close(id)
}

// ExportGame handles GET /api/games/:id/export as a .bingoCards download.
func (h *Handler) ExportGame(c *gin.Context) {
	game, err := h.store.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	header := string(game.ID)
	if header == "" {
		header = h.gen.DefaultHeader
	}
	filename := codec.ExportFilename(header, h.now())
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(codec.Serialize(game)))
}
