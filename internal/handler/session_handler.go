package handler

import (
	"log"
	"net/http"
	"time"

	"dripfit/internal/middleware"
	"dripfit/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	svc *service.WorkoutService
}

func NewSessionHandler(svc *service.WorkoutService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

type CompleteSessionRequest struct {
	GymID       uint   `json:"gym_id" binding:"required"`
	MachineType string `json:"machine_type" binding:"required"`
	Minutes     int    `json:"minutes" binding:"required,min=1,max=600"`
	StartedAt   string `json:"started_at"` // RFC3339, optional
}

// Complete records a finished workout segment: session drops plus any
// challenge progress, in one shot.
func (h *SessionHandler) Complete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startedAt := time.Now().Add(-time.Duration(req.Minutes) * time.Minute)
	if req.StartedAt != "" {
		t, err := time.Parse(time.RFC3339, req.StartedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid started_at (use RFC3339)"})
			return
		}
		startedAt = t
	}
	res, err := h.svc.CompleteSession(userID, req.GymID, req.MachineType, req.Minutes, startedAt)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "gym not found"})
		case service.ErrSessionTooShort:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("[session] complete failed: user=%d gym=%d err=%v", userID, req.GymID, err)
			c.JSON(storageStatus(err), gin.H{"error": "failed to record session"})
		}
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *SessionHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	sessions, err := h.svc.ListSessions(userID, limit, offset)
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "session lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
