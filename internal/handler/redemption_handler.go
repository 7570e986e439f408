package handler

import (
	"log"
	"net/http"
	"strconv"

	"dripfit/internal/middleware"
	"dripfit/internal/models"
	"dripfit/internal/repository"
	"dripfit/internal/service"

	"github.com/gin-gonic/gin"
)

type RedemptionHandler struct {
	svc       *service.RedemptionService
	auditRepo *repository.AuditLogRepository
}

func NewRedemptionHandler(svc *service.RedemptionService, auditRepo *repository.AuditLogRepository) *RedemptionHandler {
	return &RedemptionHandler{svc: svc, auditRepo: auditRepo}
}

type CreateRedemptionRequest struct {
	RewardID uint `json:"reward_id" binding:"required"`
	GymID    uint `json:"gym_id" binding:"required"`
}

// Create exchanges drops for a reward. Member only.
func (h *RedemptionHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req CreateRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rd, err := h.svc.Create(userID, req.RewardID, req.GymID)
	if err != nil {
		switch err {
		case service.ErrRewardNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrOutOfStock:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case service.ErrInsufficientBalance:
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			log.Printf("[redemption] create failed: user=%d reward=%d err=%v", userID, req.RewardID, err)
			c.JSON(storageStatus(err), gin.H{"error": "redemption failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, rd)
}

func (h *RedemptionHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	rds, err := h.svc.ListMine(userID, limit, offset)
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "redemption lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": rds})
}

// Validate looks up a redemption by code at the staff member's gym without
// mutating it. Scanning tools call this before Confirm.
func (h *RedemptionHandler) Validate(c *gin.Context) {
	gymID := h.staffGym(c)
	if gymID == 0 {
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	rd, err := h.svc.Validate(code, gymID)
	if err != nil {
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "no redemption with that code at this gym"})
			return
		}
		c.JSON(storageStatus(err), gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, rd)
}

// Confirm finalizes a pending redemption. Staff only; a second confirm
// fails so the same code cannot be served twice.
func (h *RedemptionHandler) Confirm(c *gin.Context) {
	h.resolve(c, "redemption.confirm", h.svc.Confirm)
}

// Cancel voids a pending redemption and refunds the drops.
func (h *RedemptionHandler) Cancel(c *gin.Context) {
	h.resolve(c, "redemption.cancel", h.svc.Cancel)
}

func (h *RedemptionHandler) resolve(c *gin.Context, action string, fn func(uint, uint) (*models.Redemption, error)) {
	staffID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption id"})
		return
	}
	rd, err := fn(uint(id), staffID)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrInvalidTransition:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.Printf("[redemption] %s failed: id=%d err=%v", action, id, err)
			c.JSON(storageStatus(err), gin.H{"error": "operation failed"})
		}
		return
	}
	h.audit(c, staffID, action, rd)
	c.JSON(http.StatusOK, rd)
}

// ListForGym returns redemptions at the staff member's gym, optionally
// filtered by status.
func (h *RedemptionHandler) ListForGym(c *gin.Context) {
	gymID := h.staffGym(c)
	if gymID == 0 {
		return
	}
	limit, offset := pagination(c)
	rds, err := h.svc.ListForGym(gymID, c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "redemption lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemptions": rds})
}

// AuditTrail returns the staff action history for one redemption at the
// caller's gym.
func (h *RedemptionHandler) AuditTrail(c *gin.Context) {
	gymID := h.staffGym(c)
	if gymID == 0 {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid redemption id"})
		return
	}
	rd, err := h.svc.Get(uint(id), gymID)
	if err != nil {
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(storageStatus(err), gin.H{"error": "redemption lookup failed"})
		return
	}
	entries, err := h.auditRepo.ListByResource("redemption", strconv.FormatUint(uint64(rd.ID), 10), 50)
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "audit lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redemption_id": rd.ID, "audit": entries})
}

func (h *RedemptionHandler) staffGym(c *gin.Context) uint {
	gymID := middleware.GetStaffGymID(c)
	if gymID == 0 {
		if v, err := strconv.ParseUint(c.Query("gym_id"), 10, 32); err == nil {
			gymID = uint(v) // admins pass the gym explicitly
		}
	}
	if gymID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gym_id is required"})
	}
	return gymID
}

func (h *RedemptionHandler) audit(c *gin.Context, staffID uint, action string, rd *models.Redemption) {
	if h.auditRepo == nil {
		return
	}
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &staffID,
		Action:     action,
		Resource:   "redemption",
		ResourceID: strconv.FormatUint(uint64(rd.ID), 10),
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
}
