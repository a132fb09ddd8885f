package handler

import (
	"net/http"
	"strconv"

	"sui-transfer-gateway/internal/adapter/http/dto"
	"sui-transfer-gateway/internal/adapter/http/middleware"
	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/pkg/apperror"
	"sui-transfer-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// TransferHandler runs transfer requests through the pipeline.
type TransferHandler struct {
	transfers ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transfers ports.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// Send handles POST /api/v1/transfers. The body always carries the
// status line; the HTTP status follows the outcome.
func (h *TransferHandler) Send(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	report := h.transfers.Send(c.Request.Context(), middleware.Session(c), req.Recipient, string(req.Amount))

	status, body := toTransferResponse(report)
	response.JSON(c, status, body)
}

func toTransferResponse(r *ports.TransferReport) (int, dto.TransferResponse) {
	body := dto.TransferResponse{
		State: string(r.State),
		Status: dto.StatusResponse{
			Kind:        string(r.Status.Kind),
			Text:        r.Status.Text,
			Digest:      r.Status.Digest,
			ExplorerURL: r.Status.ExplorerURL,
		},
	}
	if r.Intent != nil {
		body.Recipient = r.Intent.Recipient.String()
		body.AmountBaseUnits = strconv.FormatUint(r.Intent.AmountBaseUnits, 10)
	}

	var appErr *apperror.AppError
	switch r.State {
	case domain.TransferStateSucceeded:
		return http.StatusCreated, body
	case domain.TransferStateRejected:
		appErr = apperror.From(r.Rejection)
	case domain.TransferStateFailed:
		if r.Outcome != nil {
			appErr = apperror.FromOutcome(*r.Outcome)
		}
	}
	if appErr == nil {
		appErr = apperror.InternalError(nil)
	}
	body.ErrorCode = appErr.Code
	return appErr.HTTPStatus, body
}
