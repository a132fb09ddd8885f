package service

import (
	"fmt"
	"strings"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/units"
)

// TransferBuilder turns user input into a TransferIntent.
type TransferBuilder struct {
	toBaseUnits func(string) (uint64, error)
}

// NewTransferBuilder creates a builder using exact decimal conversion.
func NewTransferBuilder() *TransferBuilder {
	return &TransferBuilder{toBaseUnits: units.ToBaseUnits}
}

// Build validates the input and returns the intent. Checks run in order
// sender, recipient, amount; the first failure is returned as a
// domain.ValidationFailure (possibly wrapped).
func (b *TransferBuilder) Build(sender, recipient domain.Address, displayAmount string) (*domain.TransferIntent, error) {
	if sender.IsZero() {
		return nil, domain.ErrNotConnected
	}

	to := domain.Address(strings.TrimSpace(recipient.String()))
	if to.IsZero() {
		return nil, domain.ErrMissingRecipient
	}

	if strings.TrimSpace(displayAmount) == "" {
		return nil, domain.ErrInvalidAmount
	}
	amount, err := b.toBaseUnits(displayAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount %q is zero in base units", domain.ErrInvalidAmount, displayAmount)
	}

	return &domain.TransferIntent{
		Sender:          sender,
		Recipient:       to,
		AmountBaseUnits: amount,
	}, nil
}
