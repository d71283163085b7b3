package controller

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"focusdock/internal/apperrors"
	"focusdock/internal/middleware"
	"focusdock/internal/models"
	"focusdock/internal/queue"
	"focusdock/internal/repository"
	"focusdock/pkg/logger"
)

// SessionController accepts completed timer sessions and serves the history.
// When Kafka is configured the append goes through the queue (202); otherwise
// it lands in the store directly (201).
type SessionController struct {
	store    repository.SessionStore
	useQueue bool
}

func NewSessionController(store repository.SessionStore, useQueue bool) *SessionController {
	return &SessionController{store: store, useQueue: useQueue}
}

func (sc *SessionController) StoreSession(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.OwnerID(c)

	var body struct {
		Type     string    `json:"type"`
		Duration int       `json:"duration"`
		Date     time.Time `json:"date"`
		Time     string    `json:"time"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, apperrors.Validation("invalid request body"))
		return
	}
	if body.Type != models.SessionPomodoro && body.Type != models.SessionBreak {
		writeError(c, apperrors.Validation("invalid or missing session type"))
		return
	}
	if body.Duration <= 0 {
		writeError(c, apperrors.Validation("duration must be a positive number of minutes"))
		return
	}
	if body.Date.IsZero() {
		writeError(c, apperrors.Validation("invalid or missing session date"))
		return
	}

	id := uuid.NewString()
	if sc.useQueue {
		cmd := &models.SessionCommand{
			ID:          id,
			Type:        body.Type,
			Duration:    body.Duration,
			Date:        body.Date,
			Time:        body.Time,
			OwnerID:     ownerID,
			RequestedAt: time.Now().UTC(),
		}
		if err := queue.PublishSessionCommand(ctx, cmd); err != nil {
			logger.Error(ctx, "StoreSession publish failed", "error", err)
			writeError(c, apperrors.Internal("failed to queue session"))
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"id": id, "message": "Session queued"})
		return
	}

	rec := &models.SessionRecord{
		ID:       id,
		Type:     body.Type,
		Duration: body.Duration,
		Date:     body.Date,
		Time:     body.Time,
		OwnerID:  ownerID,
	}
	if err := sc.store.InsertSession(ctx, rec); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (sc *SessionController) FetchSessions(c *gin.Context) {
	ctx := c.Request.Context()
	ownerID := middleware.OwnerID(c)

	page := parsePositive(c.DefaultQuery("page", "1"))
	limit := parsePositive(c.DefaultQuery("limit", "5"))
	if page <= 0 || limit <= 0 {
		writeError(c, apperrors.Validation("page and limit must be positive integers"))
		return
	}

	sessions, total, err := sc.store.ListSessions(ctx, ownerID, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions":    sessions,
		"total":       total,
		"currentPage": page,
		"totalPages":  int(math.Ceil(float64(total) / float64(limit))),
	})
}

func parsePositive(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
