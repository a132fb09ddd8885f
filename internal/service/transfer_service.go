package service

import (
	"context"
	"time"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/pkg/apperror"
	"sui-transfer-gateway/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// inFlightTTL bounds how long a crashed request can block its sender.
const inFlightTTL = 2 * time.Minute

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	builder   *TransferBuilder
	executor  *TransferExecutor
	presenter *StatusPresenter
	guard     ports.InFlightGuard
	journal   ports.TransferJournal
	network   domain.Network
	metrics   *metrics.Metrics
	log       zerolog.Logger
	now       func() time.Time
}

// NewTransferService creates a new TransferServiceImpl. journal may be nil.
func NewTransferService(
	builder *TransferBuilder,
	executor *TransferExecutor,
	presenter *StatusPresenter,
	guard ports.InFlightGuard,
	journal ports.TransferJournal,
	network domain.Network,
	m *metrics.Metrics,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		builder:   builder,
		executor:  executor,
		presenter: presenter,
		guard:     guard,
		journal:   journal,
		network:   network,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Send runs one request through validation, submission and presentation.
// It never returns a Go error: every ending is a presented status line.
func (s *TransferServiceImpl) Send(ctx context.Context, session domain.SessionState, recipient, amount string) *ports.TransferReport {
	intent, err := s.builder.Build(session.Sender(), domain.Address(recipient), amount)
	if err != nil {
		return s.reject(err)
	}

	token := uuid.NewString()
	acquired, err := s.guard.Acquire(ctx, intent.Sender, token, inFlightTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("sender", intent.Sender.String()).Msg("in-flight guard unavailable, proceeding")
	} else if !acquired {
		report := s.reject(apperror.ErrTransferInProgress())
		report.Intent = intent
		return report
	}

	outcome := s.executor.Execute(ctx, *intent)

	if acquired {
		if err := s.guard.Release(context.WithoutCancel(ctx), intent.Sender, token); err != nil {
			s.log.Warn().Err(err).Str("sender", intent.Sender.String()).Msg("releasing in-flight guard")
		}
	}

	state := domain.TransferStateFailed
	if outcome.IsSuccess() {
		state = domain.TransferStateSucceeded
	}
	s.metrics.ObserveTransfer(string(state))
	s.record(ctx, *intent, outcome)

	return &ports.TransferReport{
		State:   state,
		Status:  s.presenter.Present(outcome),
		Intent:  intent,
		Outcome: &outcome,
	}
}

func (s *TransferServiceImpl) reject(err error) *ports.TransferReport {
	s.metrics.ObserveTransfer(string(domain.TransferStateRejected))
	return &ports.TransferReport{
		State:     domain.TransferStateRejected,
		Status:    s.presenter.PresentRejection(err),
		Rejection: err,
	}
}

// record appends the outcome to the journal. Journal failures never change
// the outcome the caller sees.
func (s *TransferServiceImpl) record(ctx context.Context, intent domain.TransferIntent, outcome domain.TransferOutcome) {
	if s.journal == nil {
		return
	}
	entry := domain.NewJournalEntry(intent, s.network, outcome, s.now())
	if err := s.journal.Append(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Error().Err(err).Str("entry_id", entry.ID.String()).Msg("failed to journal transfer")
	}
}
