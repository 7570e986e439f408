package handler

import (
	"net/http"
	"strconv"

	"dripfit/internal/middleware"
	"dripfit/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	repo *repository.NotificationRepository
}

func NewNotificationHandler(repo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	ns, err := h.repo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "notification lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": ns})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.repo.MarkRead(userID, uint(id)); err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "failed to mark read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
