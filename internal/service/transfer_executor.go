package service

import (
	"context"
	"errors"
	"net"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// TransferExecutor submits intents through the sign-and-submit capability.
type TransferExecutor struct {
	submitter ports.TransferSubmitter
	log       zerolog.Logger
}

// NewTransferExecutor creates an executor around submitter.
func NewTransferExecutor(submitter ports.TransferSubmitter, log zerolog.Logger) *TransferExecutor {
	return &TransferExecutor{submitter: submitter, log: log}
}

// Execute makes exactly one submission attempt and normalizes its result.
// Cancellation of ctx does not abort an attempt already started; the
// submitter's own timeout is the only bound. Re-running Execute after a
// failure is a new, distinct submission.
func (e *TransferExecutor) Execute(ctx context.Context, intent domain.TransferIntent) domain.TransferOutcome {
	res, err := e.submitter.SignAndSubmit(context.WithoutCancel(ctx), ports.SubmitRequest{
		Sender: intent.Sender,
		Intent: intent,
	})
	if err != nil {
		outcome := outcomeFromError(err)
		e.log.Warn().
			Err(err).
			Str("sender", intent.Sender.String()).
			Str("failure_kind", string(outcome.Kind)).
			Msg("transfer submission failed")
		return outcome
	}
	if res == nil || res.Digest == "" {
		e.log.Error().Str("sender", intent.Sender.String()).Msg("submitter returned no digest")
		return domain.Failed(domain.FailureUnknown, "")
	}

	e.log.Info().
		Str("sender", intent.Sender.String()).
		Str("recipient", intent.Recipient.String()).
		Uint64("amount", intent.AmountBaseUnits).
		Str("digest", res.Digest).
		Msg("transfer submitted")
	return domain.Succeeded(res.Digest)
}

// outcomeFromError keeps the submitter's classification when it made one.
// Unclassified errors are sorted into transport or unknown failures.
func outcomeFromError(err error) domain.TransferOutcome {
	var subErr *ports.SubmitError
	if errors.As(err, &subErr) {
		return domain.Failed(subErr.Kind, subErr.Message)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return domain.Failed(domain.FailureTransportUnavailable, err.Error())
	}
	return domain.Failed(domain.FailureUnknown, err.Error())
}
