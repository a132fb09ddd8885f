package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/internal/core/ports/mocks"
	"sui-transfer-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const otherAccount = domain.Address("0x1111111111111111111111111111111111111111111111111111111111111111")

func setupSessionService(t *testing.T) (
	*SessionServiceImpl,
	*mocks.MockSigner,
	*mocks.MockRevocationStore,
) {
	ctrl := gomock.NewController(t)
	accounts := mocks.NewMockSigner(ctrl)
	revoked := mocks.NewMockRevocationStore(ctrl)
	tokens := NewJWTSessionTokens(testJWTSecret, time.Hour, "test-issuer")

	svc := NewSessionService(accounts, tokens, revoked, domain.NetworkTestnet, zerolog.Nop())
	return svc, accounts, revoked
}

func TestSessionService_ConnectDefaultAccount(t *testing.T) {
	svc, accounts, _ := setupSessionService(t)
	accounts.EXPECT().Accounts().Return([]domain.Address{testAccount, otherAccount})

	grant, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, testAccount, grant.Account)
	assert.Equal(t, domain.NetworkTestnet, grant.Network)
	assert.NotEmpty(t, grant.Token)
	assert.True(t, grant.ExpiresAt.After(time.Now()))
}

func TestSessionService_ConnectNamedAccount(t *testing.T) {
	svc, accounts, _ := setupSessionService(t)
	accounts.EXPECT().Lookup(otherAccount).Return(otherAccount, true)

	grant, err := svc.Connect(context.Background(), otherAccount.String())
	require.NoError(t, err)
	assert.Equal(t, otherAccount, grant.Account)
}

func TestSessionService_ConnectUnknownAccount(t *testing.T) {
	svc, accounts, _ := setupSessionService(t)
	accounts.EXPECT().Lookup(domain.Address("0xdead")).Return(domain.Address(""), false)

	_, err := svc.Connect(context.Background(), "0xdead")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SES_002", appErr.Code)
}

func TestSessionService_ConnectEmptyKeystore(t *testing.T) {
	svc, accounts, _ := setupSessionService(t)
	accounts.EXPECT().Accounts().Return(nil)

	_, err := svc.Connect(context.Background(), "")
	assert.Error(t, err)
}

func TestSessionService_ResolveConnected(t *testing.T) {
	svc, accounts, revoked := setupSessionService(t)
	accounts.EXPECT().Accounts().Return([]domain.Address{testAccount})
	accounts.EXPECT().Lookup(testAccount).Return(testAccount, true)
	revoked.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)

	grant, err := svc.Connect(context.Background(), "")
	require.NoError(t, err)

	state := svc.Resolve(context.Background(), grant.Token)
	assert.True(t, state.Connected)
	assert.Equal(t, testAccount, state.Sender())
	assert.Equal(t, domain.NetworkTestnet, state.Network)
}

func TestSessionService_ResolveDisconnectedCases(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		svc, _, _ := setupSessionService(t)
		assert.Equal(t, domain.Disconnected(), svc.Resolve(context.Background(), ""))
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _, _ := setupSessionService(t)
		assert.False(t, svc.Resolve(context.Background(), "not-a-token").Connected)
	})

	t.Run("other network", func(t *testing.T) {
		svc, _, _ := setupSessionService(t)
		token, _, err := NewJWTSessionTokens(testJWTSecret, time.Hour, "test-issuer").Issue(testAccount, domain.NetworkMainnet)
		require.NoError(t, err)
		assert.False(t, svc.Resolve(context.Background(), token).Connected)
	})

	t.Run("account no longer held", func(t *testing.T) {
		svc, accounts, _ := setupSessionService(t)
		token, _, err := svc.tokens.Issue(testAccount, domain.NetworkTestnet)
		require.NoError(t, err)
		accounts.EXPECT().Lookup(testAccount).Return(domain.Address(""), false)
		assert.False(t, svc.Resolve(context.Background(), token).Connected)
	})

	t.Run("revoked", func(t *testing.T) {
		svc, accounts, revoked := setupSessionService(t)
		token, claims, err := svc.tokens.Issue(testAccount, domain.NetworkTestnet)
		require.NoError(t, err)
		accounts.EXPECT().Lookup(testAccount).Return(testAccount, true)
		revoked.EXPECT().IsRevoked(gomock.Any(), claims.TokenID).Return(true, nil)
		assert.False(t, svc.Resolve(context.Background(), token).Connected)
	})
}

func TestSessionService_ResolveRevocationStoreDown(t *testing.T) {
	svc, accounts, revoked := setupSessionService(t)
	token, _, err := svc.tokens.Issue(testAccount, domain.NetworkTestnet)
	require.NoError(t, err)
	accounts.EXPECT().Lookup(testAccount).Return(testAccount, true)
	revoked.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, errors.New("redis down"))

	assert.True(t, svc.Resolve(context.Background(), token).Connected)
}

func TestSessionService_Disconnect(t *testing.T) {
	svc, _, revoked := setupSessionService(t)
	token, claims, err := svc.tokens.Issue(testAccount, domain.NetworkTestnet)
	require.NoError(t, err)

	revoked.EXPECT().Revoke(gomock.Any(), claims.TokenID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, ttl time.Duration) error {
			assert.True(t, ttl > 0 && ttl <= time.Hour)
			return nil
		})

	require.NoError(t, svc.Disconnect(context.Background(), token))
}

func TestSessionService_DisconnectInvalidToken(t *testing.T) {
	svc, _, _ := setupSessionService(t)

	err := svc.Disconnect(context.Background(), "bogus")
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SES_001", appErr.Code)
}

func TestSessionService_DisconnectStoreFailure(t *testing.T) {
	svc, _, revoked := setupSessionService(t)
	token, _, err := svc.tokens.Issue(testAccount, domain.NetworkTestnet)
	require.NoError(t, err)
	revoked.EXPECT().Revoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	assert.Error(t, svc.Disconnect(context.Background(), token))
}

var _ ports.SessionService = (*SessionServiceImpl)(nil)
