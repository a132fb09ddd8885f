package ports

import (
	"context"
	"time"

	"sui-transfer-gateway/internal/core/domain"
)

// --- Service Ports (Business Logic) ---

// TransferReport is the result of one pass through the transfer pipeline.
type TransferReport struct {
	State   domain.TransferState
	Status  domain.StatusMessage
	Intent  *domain.TransferIntent  // nil when rejected before building
	Outcome *domain.TransferOutcome // nil unless submitted
	// Rejection is the reason a request never reached submission
	// (a domain.ValidationFailure or an *apperror.AppError).
	Rejection error
}

// TransferService runs the transfer request pipeline for a session.
type TransferService interface {
	Send(ctx context.Context, session domain.SessionState, recipient, amount string) *TransferReport
}

// BalanceService returns displayable balances.
type BalanceService interface {
	GetBalance(ctx context.Context, owner domain.Address) domain.BalanceView
}

// SessionGrant is returned once on connect.
type SessionGrant struct {
	Token     string
	Account   domain.Address
	Network   domain.Network
	ExpiresAt time.Time
}

// SessionService is the wallet-connection capability.
type SessionService interface {
	Connect(ctx context.Context, address string) (*SessionGrant, error)
	Disconnect(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) domain.SessionState
}
