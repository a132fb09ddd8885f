package domain

import (
	"errors"
	"math/bits"
)

// SuiCoinType is the native coin type on every Sui network.
const SuiCoinType = "0x2::sui::SUI"

// CoinRecord is one owned coin object as reported by the full node.
// Balance is in base units (MIST for SUI).
type CoinRecord struct {
	CoinObjectID string `json:"coin_object_id"`
	CoinType     string `json:"coin_type"`
	Balance      uint64 `json:"balance"`
}

// ErrBalanceOverflow reports coin balances whose total does not fit in
// a uint64. Only a misbehaving node can produce it.
var ErrBalanceOverflow = errors.New("coin balances overflow uint64")

// SumBalances totals the balances of coins in base units.
func SumBalances(coins []CoinRecord) (uint64, error) {
	var total, carry uint64
	for _, c := range coins {
		total, carry = bits.Add64(total, c.Balance, 0)
		if carry != 0 {
			return 0, ErrBalanceOverflow
		}
	}
	return total, nil
}

// BalanceView is the displayable balance of one account.
// When Available is false the full node could not be queried and
// BaseUnits is zero.
type BalanceView struct {
	Owner     Address `json:"owner"`
	CoinType  string  `json:"coin_type"`
	BaseUnits uint64  `json:"base_units"`
	Display   string  `json:"display"`
	Available bool    `json:"available"`
}
