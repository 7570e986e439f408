package handler

import (
	"net/http"

	"dripfit/internal/progression"

	"github.com/gin-gonic/gin"
)

// ProgressionHandler exposes the next-target calculator. Stateless: the
// app sends the finished set and its plan item, and persists the result
// into the plan itself.
type ProgressionHandler struct{}

func NewProgressionHandler() *ProgressionHandler {
	return &ProgressionHandler{}
}

type NextTargetRequest struct {
	Session struct {
		ActualReps       int     `json:"actual_reps"`
		ActualSeconds    int     `json:"actual_seconds"`
		TempoConsistency float64 `json:"tempo_consistency"`
	} `json:"session"`
	PlanItem struct {
		Enabled       bool    `json:"enabled"`
		TargetReps    int     `json:"target_reps"`
		TargetSeconds int     `json:"target_seconds"`
		TargetWeight  float64 `json:"target_weight"`
		RestSeconds   int     `json:"rest_seconds"`
	} `json:"plan_item"`
}

func (h *ProgressionHandler) NextTarget(c *gin.Context) {
	var req NextTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := progression.NextTarget(
		progression.Session{
			ActualReps:       req.Session.ActualReps,
			ActualSeconds:    req.Session.ActualSeconds,
			TempoConsistency: req.Session.TempoConsistency,
		},
		progression.PlanItem{
			Enabled:       req.PlanItem.Enabled,
			TargetReps:    req.PlanItem.TargetReps,
			TargetSeconds: req.PlanItem.TargetSeconds,
			TargetWeight:  req.PlanItem.TargetWeight,
			RestSeconds:   req.PlanItem.RestSeconds,
		},
	)
	c.JSON(http.StatusOK, gin.H{
		"progression_type": res.Type,
		"target_reps":      res.TargetReps,
		"target_seconds":   res.TargetSeconds,
		"target_weight":    res.TargetWeight,
		"rest_seconds":     res.RestSeconds,
		"note":             res.Note,
	})
}
