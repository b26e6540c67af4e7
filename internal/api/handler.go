package api

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bingo-cards-backend/config"
	"bingo-cards-backend/internal/draw"
	"bingo-cards-backend/internal/hub"
	"bingo-cards-backend/internal/mw"
	"bingo-cards-backend/internal/rng"
	"bingo-cards-backend/internal/store"
	"bingo-cards-backend/internal/upload"
)

// Options carries the non-store dependencies of a Handler.
type Options struct {
	Generator      config.GeneratorConfig
	UploadMaxBytes int
	AllowedOrigins []string
	// Source must be safe for concurrent use; nil means rng.System().
	Source rng.Source
	Cache  *mw.ResponseCache
	Log    *zap.SugaredLogger
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	hub       *hub.Hub
	validator *upload.Validator
	cache     *mw.ResponseCache
	gen       config.GeneratorConfig
	src       rng.Source
	upgrader  websocket.Upgrader
	log       *zap.SugaredLogger
	now       func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, h *hub.Hub, opts Options) *Handler {
	if opts.Source == nil {
		opts.Source = rng.System()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.Cache == nil {
		opts.Cache = mw.NewResponseCache(5 * time.Minute)
	}
	if opts.Generator.MaxCount <= 0 {
		opts.Generator.MaxCount = 10000
	}

	upgrader := websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
	if origins := opts.AllowedOrigins; len(origins) > 0 {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(origins, origin)
		}
	}

	return &Handler{
		store:     s,
		hub:       h,
		validator: upload.NewValidator(opts.UploadMaxBytes),
		cache:     opts.Cache,
		gen:       opts.Generator,
		src:       opts.Source,
		upgrader:  upgrader,
		log:       opts.Log,
		now:       time.Now,
	}
}

// respondError maps domain errors to HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, draw.ErrOutOfRange), errors.Is(err, upload.ErrEmpty):
		status = http.StatusBadRequest
	case errors.Is(err, draw.ErrAlreadyDrawn):
		status = http.StatusConflict
	case errors.Is(err, upload.ErrTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, upload.ErrExtension), errors.Is(err, upload.ErrMIME):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, upload.ErrUnsafeContent), errors.Is(err, upload.ErrStructure):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		h.log.Errorw("request failed", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
