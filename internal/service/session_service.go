package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// SessionServiceImpl implements ports.SessionService on top of a keystore
// account list, signed tokens and a revocation store.
type SessionServiceImpl struct {
	accounts ports.AccountStore
	tokens   ports.SessionTokens
	revoked  ports.RevocationStore
	network  domain.Network
	log      zerolog.Logger
	now      func() time.Time
}

// NewSessionService creates a new SessionServiceImpl.
func NewSessionService(
	accounts ports.AccountStore,
	tokens ports.SessionTokens,
	revoked ports.RevocationStore,
	network domain.Network,
	log zerolog.Logger,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		accounts: accounts,
		tokens:   tokens,
		revoked:  revoked,
		network:  network,
		log:      log,
		now:      time.Now,
	}
}

// Connect opens a session for address, or for the default account when
// address is empty.
func (s *SessionServiceImpl) Connect(ctx context.Context, address string) (*ports.SessionGrant, error) {
	account, err := s.pickAccount(address)
	if err != nil {
		return nil, err
	}

	token, claims, err := s.tokens.Issue(account, s.network)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("issuing session token: %w", err))
	}

	s.log.Info().
		Str("account", account.String()).
		Str("network", string(s.network)).
		Str("token_id", claims.TokenID).
		Msg("wallet connected")

	return &ports.SessionGrant{
		Token:     token,
		Account:   account,
		Network:   s.network,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (s *SessionServiceImpl) pickAccount(address string) (domain.Address, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		held := s.accounts.Accounts()
		if len(held) == 0 {
			return "", apperror.ErrUnknownAccount()
		}
		return held[0], nil
	}

	account, ok := s.accounts.Lookup(domain.Address(address))
	if !ok {
		return "", apperror.ErrUnknownAccount()
	}
	return account, nil
}

// Disconnect revokes token until it would have expired anyway.
func (s *SessionServiceImpl) Disconnect(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return apperror.ErrInvalidSession()
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return apperror.InternalError(fmt.Errorf("revoking session: %w", err))
	}

	s.log.Info().
		Str("account", claims.Account.String()).
		Str("token_id", claims.TokenID).
		Msg("wallet disconnected")
	return nil
}

// Resolve returns the session a token stands for. Anything that is not a
// live token for the active network resolves to the disconnected state.
func (s *SessionServiceImpl) Resolve(ctx context.Context, token string) domain.SessionState {
	if token == "" {
		return domain.Disconnected()
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("rejecting session token")
		return domain.Disconnected()
	}
	if claims.Network != s.network {
		return domain.Disconnected()
	}
	account, ok := s.accounts.Lookup(claims.Account)
	if !ok {
		return domain.Disconnected()
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		// Fail open: the token signature is already verified.
		s.log.Warn().Err(err).Str("token_id", claims.TokenID).Msg("revocation check failed")
	}
	if revoked {
		return domain.Disconnected()
	}

	return domain.SessionState{
		Connected: true,
		Account:   account,
		Network:   s.network,
	}
}
