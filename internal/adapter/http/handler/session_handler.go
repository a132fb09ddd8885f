package handler

import (
	"errors"
	"io"

	"sui-transfer-gateway/internal/adapter/http/dto"
	"sui-transfer-gateway/internal/adapter/http/middleware"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/pkg/apperror"
	"sui-transfer-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// SessionHandler connects and disconnects the wallet.
type SessionHandler struct {
	sessions ports.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Connect handles POST /api/v1/session.
func (h *SessionHandler) Connect(c *gin.Context) {
	var req dto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	grant, err := h.sessions.Connect(c.Request.Context(), req.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.SessionResponse{
		Token:   grant.Token,
		Account: grant.Account.String(),
		Network: string(grant.Network),
		Expiry:  grant.ExpiresAt.Unix(),
	})
}

// Disconnect handles DELETE /api/v1/session.
func (h *SessionHandler) Disconnect(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		response.Error(c, apperror.ErrInvalidSession())
		return
	}
	if err := h.sessions.Disconnect(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SessionStateResponse{Connected: false})
}

// Current handles GET /api/v1/session.
func (h *SessionHandler) Current(c *gin.Context) {
	s := middleware.Session(c)
	response.OK(c, dto.SessionStateResponse{
		Connected: s.Connected,
		Account:   s.Account.String(),
		Network:   string(s.Network),
	})
}
