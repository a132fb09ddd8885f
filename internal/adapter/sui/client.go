// Package sui talks to a Sui full node over JSON-RPC.
package sui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"sui-transfer-gateway/config"
	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/pkg/metrics"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// maxCoinPages stops pagination against a node that never ends a listing.
const maxCoinPages = 200

// Client is a Sui JSON-RPC client guarded by a circuit breaker.
type Client struct {
	rpc     *rpc.Client
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// Dial connects to the full node at endpoint. No request is made.
func Dial(ctx context.Context, endpoint string, timeout time.Duration, bc config.BreakerConfig, m *metrics.Metrics, log zerolog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}
	rc, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("dialing sui node: %w", err)
	}

	c := &Client{
		rpc:     rc,
		timeout: timeout,
		metrics: m,
		log:     log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sui-rpc",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.ConsecutiveFailures
		},
		// A JSON-RPC error object means the node is up and answering.
		IsSuccessful: func(err error) bool {
			return err == nil || isApplicationError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return c, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

func (c *Client) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	start := time.Now()
	_, err := c.breaker.Execute(func() (interface{}, error) {
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		return nil, c.rpc.CallContext(ctx, result, method, args...)
	})
	c.metrics.ObserveRPC(method, start, err)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Dur("elapsed", time.Since(start)).Msg("rpc call failed")
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

type coinJSON struct {
	CoinType     string `json:"coinType"`
	CoinObjectID string `json:"coinObjectId"`
	Version      string `json:"version"`
	Digest       string `json:"digest"`
	Balance      string `json:"balance"`
}

type coinPage struct {
	Data        []coinJSON `json:"data"`
	NextCursor  *string    `json:"nextCursor"`
	HasNextPage bool       `json:"hasNextPage"`
}

// GetCoins lists every coin of coinType owned by owner, following pages.
// It implements ports.CoinQuerier.
func (c *Client) GetCoins(ctx context.Context, owner domain.Address, coinType string) ([]domain.CoinRecord, error) {
	var (
		coins  []domain.CoinRecord
		cursor *string
	)
	for page := 0; page < maxCoinPages; page++ {
		var resp coinPage
		if err := c.call(ctx, &resp, "suix_getCoins", owner.String(), coinType, cursor, nil); err != nil {
			return nil, err
		}

		for _, cj := range resp.Data {
			balance, err := strconv.ParseUint(cj.Balance, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("coin %s: malformed balance %q: %w", cj.CoinObjectID, cj.Balance, err)
			}
			coins = append(coins, domain.CoinRecord{
				CoinObjectID: cj.CoinObjectID,
				CoinType:     cj.CoinType,
				Balance:      balance,
			})
		}

		if !resp.HasNextPage || resp.NextCursor == nil {
			return coins, nil
		}
		if cursor != nil && *cursor == *resp.NextCursor {
			return nil, fmt.Errorf("suix_getCoins: cursor %q did not advance", *cursor)
		}
		cursor = resp.NextCursor
	}
	return nil, fmt.Errorf("suix_getCoins: more than %d pages", maxCoinPages)
}

// ChainIdentifier returns the node's chain id.
func (c *Client) ChainIdentifier(ctx context.Context) (string, error) {
	var id string
	if err := c.call(ctx, &id, "sui_getChainIdentifier"); err != nil {
		return "", err
	}
	return id, nil
}

// Classify sorts an RPC error into a transfer failure kind.
func Classify(err error) domain.FailureKind {
	if err == nil {
		return ""
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.FailureTransportUnavailable
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode >= http.StatusInternalServerError || httpErr.StatusCode == http.StatusTooManyRequests {
			return domain.FailureTransportUnavailable
		}
		return domain.FailureUnknown
	}

	if isApplicationError(err) {
		return domain.FailureApplicationRejected
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return domain.FailureTransportUnavailable
	}
	return domain.FailureUnknown
}

// describe returns the user-facing part of an RPC error.
func describe(err error) string {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Error()
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "Sui full node unavailable"
	}
	return err.Error()
}

func isApplicationError(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr)
}
