package service

import (
	"errors"
	"fmt"
	"strings"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/pkg/apperror"
)

// StatusPresenter turns pipeline results into the single status line.
type StatusPresenter struct {
	explorerBase string
	network      domain.Network
}

// NewStatusPresenter creates a presenter linking to explorerBase on network.
func NewStatusPresenter(explorerBase string, network domain.Network) *StatusPresenter {
	return &StatusPresenter{
		explorerBase: strings.TrimRight(explorerBase, "/"),
		network:      network,
	}
}

// ExplorerLink returns <explorer-base>/<network>/tx/<digest>.
func (p *StatusPresenter) ExplorerLink(digest string) string {
	return fmt.Sprintf("%s/%s/tx/%s", p.explorerBase, p.network, digest)
}

// Present maps a submission outcome.
func (p *StatusPresenter) Present(outcome domain.TransferOutcome) domain.StatusMessage {
	if outcome.IsSuccess() {
		link := p.ExplorerLink(outcome.Digest)
		return domain.StatusMessage{
			Kind:        domain.StatusSuccess,
			Text:        fmt.Sprintf("Transaction %s completed. View it on the explorer: %s", outcome.Digest, link),
			Digest:      outcome.Digest,
			ExplorerURL: link,
		}
	}
	return domain.StatusMessage{
		Kind: domain.StatusFailure,
		Text: "Error: " + outcome.Message,
	}
}

// PresentRejection maps a request that never reached submission.
func (p *StatusPresenter) PresentRejection(err error) domain.StatusMessage {
	reason := err.Error()

	var vf domain.ValidationFailure
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &vf):
		reason = vf.Reason()
	case errors.As(err, &appErr):
		reason = appErr.Message
	}

	return domain.StatusMessage{
		Kind: domain.StatusRejected,
		Text: "Error: " + reason,
	}
}
