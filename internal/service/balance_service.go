package service

import (
	"context"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/internal/core/units"
	"sui-transfer-gateway/pkg/metrics"

	"github.com/rs/zerolog"
)

// Aggregate sums the balances of coins in base units. A total that does
// not fit in a uint64 is reported as domain.ErrBalanceOverflow.
func Aggregate(coins []domain.CoinRecord) (uint64, error) {
	return domain.SumBalances(coins)
}

// BalanceServiceImpl implements ports.BalanceService.
type BalanceServiceImpl struct {
	coins    ports.CoinQuerier
	coinType string
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewBalanceService creates a balance service for one coin type.
func NewBalanceService(coins ports.CoinQuerier, coinType string, m *metrics.Metrics, log zerolog.Logger) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		coins:    coins,
		coinType: coinType,
		metrics:  m,
		log:      log,
	}
}

// GetBalance fetches and totals the owner's coins. A failing full node
// degrades the view to unavailable/zero instead of returning an error.
func (s *BalanceServiceImpl) GetBalance(ctx context.Context, owner domain.Address) domain.BalanceView {
	view := domain.BalanceView{
		Owner:    owner,
		CoinType: s.coinType,
		Display:  units.ToDisplayUnits(0),
	}

	coins, err := s.coins.GetCoins(ctx, owner, s.coinType)
	if err != nil {
		s.metrics.ObserveBalanceFailure()
		s.log.Warn().Err(err).Str("owner", owner.String()).Msg("balance unavailable")
		return view
	}

	total, err := Aggregate(coins)
	if err != nil {
		s.metrics.ObserveBalanceFailure()
		s.log.Error().Err(err).Str("owner", owner.String()).Int("coins", len(coins)).Msg("malformed coin list from node")
		return view
	}

	view.BaseUnits = total
	view.Display = units.ToDisplayUnits(view.BaseUnits)
	view.Available = true
	return view
}
