package handler

import (
	"net/http"
	"sort"
	"strconv"

	"dripfit/internal/models"
	"dripfit/internal/repository"
	"dripfit/pkg/geo"

	"github.com/gin-gonic/gin"
)

type GymHandler struct {
	gymRepo *repository.GymRepository
}

func NewGymHandler(gymRepo *repository.GymRepository) *GymHandler {
	return &GymHandler{gymRepo: gymRepo}
}

func (h *GymHandler) List(c *gin.Context) {
	gyms, err := h.gymRepo.ListActive()
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "gym lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"gyms": gyms})
}

func (h *GymHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gym id"})
		return
	}
	gym, err := h.gymRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "gym not found"})
		return
	}
	c.JSON(http.StatusOK, gym)
}

// Nearby returns active gyms sorted by distance from the caller.
func (h *GymHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}
	gyms, err := h.gymRepo.ListActive()
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "gym lookup failed"})
		return
	}
	type gymWithDistance struct {
		models.Gym
		DistanceKm float64 `json:"distance_km"`
	}
	out := make([]gymWithDistance, 0, len(gyms))
	for _, g := range gyms {
		out = append(out, gymWithDistance{Gym: g, DistanceKm: geo.DistanceKm(lat, lng, g.Lat, g.Lng)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	c.JSON(http.StatusOK, gin.H{"gyms": out})
}

type CreateGymRequest struct {
	Name               string  `json:"name" binding:"required,max=128"`
	Address            string  `json:"address"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	Timezone           string  `json:"timezone"`
	DropsPerTenMinutes int64   `json:"drops_per_ten_minutes"`
}

// Create adds a gym. Admin only.
func (h *GymHandler) Create(c *gin.Context) {
	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g := &models.Gym{
		Name:               req.Name,
		Address:            req.Address,
		Lat:                req.Lat,
		Lng:                req.Lng,
		Timezone:           req.Timezone,
		DropsPerTenMinutes: req.DropsPerTenMinutes,
		IsActive:           true,
	}
	if g.Timezone == "" {
		g.Timezone = "UTC"
	}
	if g.DropsPerTenMinutes <= 0 {
		g.DropsPerTenMinutes = 1
	}
	if err := h.gymRepo.Create(g); err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "failed to create gym"})
		return
	}
	c.JSON(http.StatusCreated, g)
}

type UpdateGymRequest struct {
	Name               *string `json:"name" binding:"omitempty,max=128"`
	Address            *string `json:"address"`
	Timezone           *string `json:"timezone"`
	DropsPerTenMinutes *int64  `json:"drops_per_ten_minutes" binding:"omitempty,min=1"`
	IsActive           *bool   `json:"is_active"`
}

// Update edits gym settings, including the session earn rate. Admin only.
func (h *GymHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gym id"})
		return
	}
	var req UpdateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	gym, err := h.gymRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "gym not found"})
		return
	}
	if req.Name != nil {
		gym.Name = *req.Name
	}
	if req.Address != nil {
		gym.Address = *req.Address
	}
	if req.Timezone != nil {
		gym.Timezone = *req.Timezone
	}
	if req.DropsPerTenMinutes != nil {
		gym.DropsPerTenMinutes = *req.DropsPerTenMinutes
	}
	if req.IsActive != nil {
		gym.IsActive = *req.IsActive
	}
	if err := h.gymRepo.Update(gym); err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "failed to update gym"})
		return
	}
	c.JSON(http.StatusOK, gym)
}
