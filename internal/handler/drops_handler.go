package handler

import (
	"net/http"
	"strconv"

	"dripfit/internal/middleware"
	"dripfit/internal/service"

	"github.com/gin-gonic/gin"
)

type DropsHandler struct {
	ledger *service.LedgerService
}

func NewDropsHandler(ledger *service.LedgerService) *DropsHandler {
	return &DropsHandler{ledger: ledger}
}

// GetBalance returns the member's global balance and every per-gym local
// balance. Clients may cache this for optimistic UI, but the server-side
// check on redemption create is always authoritative.
func (h *DropsHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	global, memberships, err := h.ledger.Balances(userID)
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "balance lookup failed"})
		return
	}
	gyms := make([]gin.H, 0, len(memberships))
	for _, m := range memberships {
		gyms = append(gyms, gin.H{"gym_id": m.GymID, "local_balance": m.LocalBalance})
	}
	c.JSON(http.StatusOK, gin.H{
		"drops_balance": global,
		"gyms":          gyms,
	})
}

// GetTransactions returns the member's ledger history, newest first.
func (h *DropsHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := pagination(c)
	txs, err := h.ledger.History(userID, limit, offset)
	if err != nil {
		c.JSON(storageStatus(err), gin.H{"error": "transaction lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
