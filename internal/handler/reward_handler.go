package handler

import (
	"net/http"
	"strconv"

	"dripfit/internal/models"
	"dripfit/internal/repository"

	"github.com/gin-gonic/gin"
)

type RewardHandler struct {
	rewardRepo *repository.RewardRepository
}

func NewRewardHandler(rewardRepo *repository.RewardRepository) *RewardHandler {
	return &RewardHandler{rewardRepo: rewardRepo}
}

// ListForGym returns the active catalog at a gym. Member-facing.
func (h *RewardHandler) ListForGym(c *gin.Context) {
	gymID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gym id"})
		return
	}
	rewards, err := h.rewardRepo.ListByGym(uint(gymID), true)
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "reward lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

type CreateRewardRequest struct {
	GymID       uint   `json:"gym_id" binding:"required"`
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description"`
	PriceDrops  int64  `json:"price_drops" binding:"required,min=1"`
	Stock       *int64 `json:"stock"` // omit for unlimited
}

// Create adds a catalog item. Staff only.
func (h *RewardHandler) Create(c *gin.Context) {
	var req CreateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative"})
		return
	}
	rw := &models.Reward{
		GymID:       req.GymID,
		Name:        req.Name,
		Description: req.Description,
		PriceDrops:  req.PriceDrops,
		Stock:       req.Stock,
		IsActive:    true,
	}
	if err := h.rewardRepo.Create(rw); err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "failed to create reward"})
		return
	}
	c.JSON(http.StatusCreated, rw)
}

type UpdateRewardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceDrops  *int64  `json:"price_drops"`
	Stock       *int64  `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

// Update edits a catalog item. Price edits only affect future redemptions;
// existing ones keep their snapshotted amount. Restocking after a
// cancellation happens here, as a deliberate staff action.
func (h *RewardHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward id"})
		return
	}
	rw, err := h.rewardRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
		return
	}
	var req UpdateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		rw.Name = *req.Name
	}
	if req.Description != nil {
		rw.Description = *req.Description
	}
	if req.PriceDrops != nil {
		if *req.PriceDrops < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
			return
		}
		rw.PriceDrops = *req.PriceDrops
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock cannot be negative"})
			return
		}
		rw.Stock = req.Stock
	}
	if req.IsActive != nil {
		rw.IsActive = *req.IsActive
	}
	if err := h.rewardRepo.Update(rw); err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "failed to update reward"})
		return
	}
	c.JSON(http.StatusOK, rw)
}
