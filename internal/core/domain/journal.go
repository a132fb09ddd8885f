package domain

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry records the final outcome of one transfer attempt.
// Pending intents are never journaled.
type JournalEntry struct {
	ID              uuid.UUID     `json:"id"`
	Sender          Address       `json:"sender"`
	Recipient       Address       `json:"recipient"`
	AmountBaseUnits uint64        `json:"amount_base_units"`
	Network         Network       `json:"network"`
	State           TransferState `json:"state"`
	Digest          string        `json:"digest,omitempty"`
	FailureKind     FailureKind   `json:"failure_kind,omitempty"`
	Message         string        `json:"message,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// NewJournalEntry builds an entry from an executed intent and its outcome.
func NewJournalEntry(intent TransferIntent, network Network, outcome TransferOutcome, at time.Time) *JournalEntry {
	state := TransferStateFailed
	if outcome.IsSuccess() {
		state = TransferStateSucceeded
	}
	return &JournalEntry{
		ID:              uuid.New(),
		Sender:          intent.Sender,
		Recipient:       intent.Recipient,
		AmountBaseUnits: intent.AmountBaseUnits,
		Network:         network,
		State:           state,
		Digest:          outcome.Digest,
		FailureKind:     outcome.Kind,
		Message:         outcome.Message,
		CreatedAt:       at.UTC(),
	}
}
