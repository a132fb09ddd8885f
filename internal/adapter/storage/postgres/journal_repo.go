package postgres

import (
	"context"
	"fmt"
	"strconv"

	"sui-transfer-gateway/internal/core/domain"
)

const createJournalTable = `CREATE TABLE IF NOT EXISTS transfer_journal (
	id                UUID PRIMARY KEY,
	sender            TEXT NOT NULL,
	recipient         TEXT NOT NULL,
	amount_base_units NUMERIC(20, 0) NOT NULL,
	network           TEXT NOT NULL,
	state             TEXT NOT NULL,
	digest            TEXT,
	failure_kind      TEXT,
	message           TEXT,
	created_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transfer_journal_sender_created
	ON transfer_journal (sender, created_at DESC)`

// JournalRepo implements ports.TransferJournal.
type JournalRepo struct {
	pool Pool
}

// NewJournalRepo creates a new JournalRepo.
func NewJournalRepo(pool Pool) *JournalRepo {
	return &JournalRepo{pool: pool}
}

// EnsureSchema creates the journal table if it does not exist.
func (r *JournalRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createJournalTable); err != nil {
		return fmt.Errorf("create transfer_journal: %w", err)
	}
	return nil
}

// Append inserts one final outcome.
func (r *JournalRepo) Append(ctx context.Context, e *domain.JournalEntry) error {
	query := `INSERT INTO transfer_journal
		(id, sender, recipient, amount_base_units, network, state, digest, failure_kind, message, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.Sender.String(), e.Recipient.String(),
		strconv.FormatUint(e.AmountBaseUnits, 10),
		string(e.Network), string(e.State),
		nullable(e.Digest), nullable(string(e.FailureKind)), nullable(e.Message),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// ListBySender returns the newest entries of sender first.
func (r *JournalRepo) ListBySender(ctx context.Context, sender domain.Address, limit int) ([]*domain.JournalEntry, error) {
	query := `SELECT id, sender, recipient, amount_base_units::text, network, state,
			COALESCE(digest, ''), COALESCE(failure_kind, ''), COALESCE(message, ''), created_at
		FROM transfer_journal WHERE sender = $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, sender.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		var (
			e                                  domain.JournalEntry
			sndr, rcpt, amount, network, state string
			failureKind                        string
		)
		if err := rows.Scan(&e.ID, &sndr, &rcpt, &amount, &network, &state,
			&e.Digest, &failureKind, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.AmountBaseUnits, err = strconv.ParseUint(amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("journal entry %s: amount %q: %w", e.ID, amount, err)
		}
		e.Sender = domain.Address(sndr)
		e.Recipient = domain.Address(rcpt)
		e.Network = domain.Network(network)
		e.State = domain.TransferState(state)
		e.FailureKind = domain.FailureKind(failureKind)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}
	return entries, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
