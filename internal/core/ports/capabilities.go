package ports

import (
	"context"
	"fmt"
	"time"

	"sui-transfer-gateway/internal/core/domain"
)

// --- Chain capabilities (implemented outside the core) ---

// CoinQuerier is the RPC query capability: it lists the coins an
// account owns. Failures mean "balance unavailable", never a crash.
type CoinQuerier interface {
	GetCoins(ctx context.Context, owner domain.Address, coinType string) ([]domain.CoinRecord, error)
}

// CoinQueryFunc adapts a plain function to CoinQuerier.
type CoinQueryFunc func(ctx context.Context, owner domain.Address, coinType string) ([]domain.CoinRecord, error)

// GetCoins calls f.
func (f CoinQueryFunc) GetCoins(ctx context.Context, owner domain.Address, coinType string) ([]domain.CoinRecord, error) {
	return f(ctx, owner, coinType)
}

// SubmitRequest describes one transfer to sign and submit on behalf of Sender.
type SubmitRequest struct {
	Sender domain.Address
	Intent domain.TransferIntent
}

// SubmitResult is a successful submission.
type SubmitResult struct {
	Digest string
}

// SubmitError is a rejected submission, classified by the submitter.
type SubmitError struct {
	Kind    domain.FailureKind
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// TransferSubmitter is the sign-and-submit capability. Every call is a
// new submission attempt; implementations must not retry.
type TransferSubmitter interface {
	SignAndSubmit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
}

// SubmitFunc adapts a plain function to TransferSubmitter.
type SubmitFunc func(ctx context.Context, req SubmitRequest) (*SubmitResult, error)

// SignAndSubmit calls f.
func (f SubmitFunc) SignAndSubmit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	return f(ctx, req)
}

// AccountStore lists the accounts a wallet can sign for.
type AccountStore interface {
	// Accounts returns held addresses; the first one is the default account.
	Accounts() []domain.Address
	// Lookup returns the canonical form of addr if the wallet holds it.
	Lookup(addr domain.Address) (domain.Address, bool)
}

// Signer signs Sui transaction bytes for a held account.
type Signer interface {
	AccountStore
	// Sign returns the base64 serialized signature over txBytes.
	Sign(addr domain.Address, txBytes []byte) (string, error)
}

// --- Session capabilities ---

// SessionClaims is the verified content of a session token.
type SessionClaims struct {
	TokenID   string
	Account   domain.Address
	Network   domain.Network
	ExpiresAt time.Time
}

// SessionTokens issues and verifies session tokens.
type SessionTokens interface {
	Issue(account domain.Address, network domain.Network) (string, *SessionClaims, error)
	Parse(token string) (*SessionClaims, error)
}

// RevocationStore remembers disconnected sessions until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// --- Pipeline support ---

// InFlightGuard keeps one transfer in flight per sender.
type InFlightGuard interface {
	// Acquire marks sender as pending under token. It returns false if a
	// transfer from sender is already pending.
	Acquire(ctx context.Context, sender domain.Address, token string, ttl time.Duration) (bool, error)
	// Release clears the marker only while it is still held by token.
	Release(ctx context.Context, sender domain.Address, token string) error
}

// TransferJournal stores final transfer outcomes.
type TransferJournal interface {
	Append(ctx context.Context, entry *domain.JournalEntry) error
}
