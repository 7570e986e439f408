package handler

import (
	"net/http"
	"strconv"
	"time"

	"dripfit/internal/domain"
	"dripfit/internal/middleware"
	"dripfit/internal/models"
	"dripfit/internal/repository"
	"dripfit/internal/service"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	svc           *service.ChallengeService
	challengeRepo *repository.ChallengeRepository
}

func NewChallengeHandler(svc *service.ChallengeService, challengeRepo *repository.ChallengeRepository) *ChallengeHandler {
	return &ChallengeHandler{svc: svc, challengeRepo: challengeRepo}
}

// ListForGym returns a gym's challenges with the caller's own progress.
func (h *ChallengeHandler) ListForGym(c *gin.Context) {
	userID := middleware.GetUserID(c)
	gymID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gym id"})
		return
	}
	challenges, progress, err := h.svc.ListForGym(userID, uint(gymID))
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "challenge lookup failed"})
		return
	}
	out := make([]gin.H, 0, len(challenges))
	for _, ch := range challenges {
		entry := gin.H{"challenge": ch}
		if p, ok := progress[ch.ID]; ok {
			entry["progress"] = p
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"challenges": out})
}

type CreateChallengeRequest struct {
	GymID           uint   `json:"gym_id" binding:"required"`
	Name            string `json:"name" binding:"required,max=128"`
	Description     string `json:"description"`
	Cadence         string `json:"cadence" binding:"required,oneof=DAILY WEEKLY STREAK ONE_TIME"`
	StreakDays      int    `json:"streak_days"`
	RequiredMinutes int    `json:"required_minutes" binding:"required,min=1"`
	MachineType     string `json:"machine_type"`
	BountyDrops     int64  `json:"bounty_drops" binding:"required,min=1"`
	StartDate       string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate         string `json:"end_date" binding:"required"`
}

// Create defines a new challenge. Staff only.
func (h *ChallengeHandler) Create(c *gin.Context) {
	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date (use YYYY-MM-DD)"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil || end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date (use YYYY-MM-DD, not before start_date)"})
		return
	}
	machineType := req.MachineType
	if machineType == "" {
		machineType = domain.MachineTypeAny
	}
	ch := &models.Challenge{
		GymID:           req.GymID,
		Name:            req.Name,
		Description:     req.Description,
		Cadence:         req.Cadence,
		StreakDays:      req.StreakDays,
		RequiredMinutes: req.RequiredMinutes,
		MachineType:     machineType,
		BountyDrops:     req.BountyDrops,
		StartDate:       start,
		EndDate:         end,
		IsActive:        true,
	}
	if err := h.challengeRepo.Create(ch); err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "failed to create challenge"})
		return
	}
	c.JSON(http.StatusCreated, ch)
}

type UpdateChallengeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	EndDate     *string `json:"end_date"`
}

// Update edits a challenge's presentational fields and active window.
// Goal fields are immutable once members have progress against them.
func (h *ChallengeHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}
	ch, err := h.challengeRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		return
	}
	var req UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		ch.Name = *req.Name
	}
	if req.Description != nil {
		ch.Description = *req.Description
	}
	if req.IsActive != nil {
		ch.IsActive = *req.IsActive
	}
	if req.EndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		ch.EndDate = end
	}
	if err := h.challengeRepo.Update(ch); err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "failed to update challenge"})
		return
	}
	c.JSON(http.StatusOK, ch)
}
