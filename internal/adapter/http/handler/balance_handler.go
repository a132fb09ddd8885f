package handler

import (
	"strconv"

	"sui-transfer-gateway/internal/adapter/http/dto"
	"sui-transfer-gateway/internal/adapter/http/middleware"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// BalanceHandler serves the connected account's balance.
type BalanceHandler struct {
	balances ports.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balances ports.BalanceService) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// GetBalance handles GET /api/v1/balance. An unreachable full node
// yields available=false with a zero display, never an error status.
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	account := middleware.Session(c).Account

	view := h.balances.GetBalance(c.Request.Context(), account)
	response.OK(c, dto.BalanceResponse{
		Account:   view.Owner.String(),
		CoinType:  view.CoinType,
		Balance:   strconv.FormatUint(view.BaseUnits, 10),
		Display:   view.Display,
		Available: view.Available,
	})
}
