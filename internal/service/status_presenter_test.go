package service

import (
	"fmt"
	"strings"
	"testing"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestStatusPresenter_Success(t *testing.T) {
	p := NewStatusPresenter("https://suiscan.xyz/", domain.NetworkTestnet)

	msg := p.Present(domain.Succeeded("d1"))
	assert.Equal(t, domain.StatusSuccess, msg.Kind)
	assert.Equal(t, "d1", msg.Digest)
	assert.Equal(t, "https://suiscan.xyz/testnet/tx/d1", msg.ExplorerURL)
	assert.Contains(t, msg.Text, "d1")
	assert.True(t, strings.HasSuffix(msg.ExplorerURL, "/testnet/tx/d1"))
}

func TestStatusPresenter_Failure(t *testing.T) {
	p := NewStatusPresenter("https://suiscan.xyz", domain.NetworkMainnet)

	msg := p.Present(domain.Failed(domain.FailureApplicationRejected, "insufficient balance"))
	assert.Equal(t, domain.StatusFailure, msg.Kind)
	assert.Equal(t, "Error: insufficient balance", msg.Text)
	assert.Empty(t, msg.ExplorerURL)
	assert.Empty(t, msg.Digest)
}

func TestStatusPresenter_FailureDefaultMessage(t *testing.T) {
	p := NewStatusPresenter("https://suiscan.xyz", domain.NetworkMainnet)

	msg := p.Present(domain.Failed(domain.FailureUnknown, ""))
	assert.Equal(t, "Error: Transaction failed", msg.Text)
}

func TestStatusPresenter_PresentRejection(t *testing.T) {
	p := NewStatusPresenter("https://suiscan.xyz", domain.NetworkTestnet)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not connected", domain.ErrNotConnected, "Error: Please connect a wallet first"},
		{"wrapped amount", fmt.Errorf("%w: negative", domain.ErrInvalidAmount), "Error: Amount must be a positive number of SUI"},
		{"in progress", apperror.ErrTransferInProgress(), "Error: A transfer from this account is already in progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := p.PresentRejection(tt.err)
			assert.Equal(t, domain.StatusRejected, msg.Kind)
			assert.Equal(t, tt.want, msg.Text)
		})
	}
}
