package sui

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/bits"
	"strconv"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

const requestTypeWaitForLocalExecution = "WaitForLocalExecution"

type paySuiResult struct {
	TxBytes string `json:"txBytes"`
}

type executeResult struct {
	Digest  string `json:"digest"`
	Effects *struct {
		Status struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"status"`
	} `json:"effects"`
	Errors []string `json:"errors"`
}

// Submitter builds, signs and executes single-recipient SUI payments.
// It implements ports.TransferSubmitter.
type Submitter struct {
	client    *Client
	signer    ports.Signer
	coinType  string
	gasBudget uint64
	log       zerolog.Logger
}

// NewSubmitter creates a Submitter paying gas from the transferred coins.
func NewSubmitter(client *Client, signer ports.Signer, coinType string, gasBudget uint64, log zerolog.Logger) *Submitter {
	return &Submitter{
		client:    client,
		signer:    signer,
		coinType:  coinType,
		gasBudget: gasBudget,
		log:       log,
	}
}

// SignAndSubmit makes one submission attempt. Exactly one
// sui_executeTransactionBlock call is made per invocation at most.
func (s *Submitter) SignAndSubmit(ctx context.Context, req ports.SubmitRequest) (*ports.SubmitResult, error) {
	coins, err := s.client.GetCoins(ctx, req.Sender, s.coinType)
	if err != nil {
		return nil, rpcFailure(err)
	}

	total, err := domain.SumBalances(coins)
	if err != nil {
		return nil, &ports.SubmitError{Kind: domain.FailureUnknown, Message: "malformed coin list from node", Err: err}
	}
	inputs := make([]string, 0, len(coins))
	for _, c := range coins {
		inputs = append(inputs, c.CoinObjectID)
	}

	// Gas is paid from the same input coins.
	need, carry := bits.Add64(req.Intent.AmountBaseUnits, s.gasBudget, 0)
	if len(inputs) == 0 || carry != 0 || total < need {
		return nil, &ports.SubmitError{Kind: domain.FailureApplicationRejected, Message: "insufficient balance"}
	}

	var built paySuiResult
	err = s.client.call(ctx, &built, "unsafe_paySui",
		req.Sender.String(),
		inputs,
		[]string{req.Intent.Recipient.String()},
		[]string{strconv.FormatUint(req.Intent.AmountBaseUnits, 10)},
		strconv.FormatUint(s.gasBudget, 10),
	)
	if err != nil {
		return nil, rpcFailure(err)
	}

	txBytes, err := base64.StdEncoding.DecodeString(built.TxBytes)
	if err != nil {
		return nil, &ports.SubmitError{Kind: domain.FailureUnknown, Message: "malformed transaction bytes from node", Err: err}
	}

	signature, err := s.signer.Sign(req.Sender, txBytes)
	if err != nil {
		return nil, &ports.SubmitError{Kind: domain.FailureUnknown, Message: "signing failed", Err: err}
	}

	var executed executeResult
	err = s.client.call(ctx, &executed, "sui_executeTransactionBlock",
		built.TxBytes,
		[]string{signature},
		map[string]bool{"showEffects": true},
		requestTypeWaitForLocalExecution,
	)
	if err != nil {
		return nil, rpcFailure(err)
	}

	if executed.Effects != nil && executed.Effects.Status.Status != "success" {
		return nil, &ports.SubmitError{
			Kind:    domain.FailureApplicationRejected,
			Message: executed.Effects.Status.Error,
		}
	}
	if len(executed.Errors) > 0 {
		return nil, &ports.SubmitError{Kind: domain.FailureApplicationRejected, Message: executed.Errors[0]}
	}
	if executed.Digest == "" {
		return nil, &ports.SubmitError{Kind: domain.FailureUnknown, Message: "node returned no transaction digest"}
	}

	s.log.Debug().
		Str("digest", executed.Digest).
		Int("input_coins", len(inputs)).
		Msg("transaction executed")
	return &ports.SubmitResult{Digest: executed.Digest}, nil
}

func rpcFailure(err error) *ports.SubmitError {
	return &ports.SubmitError{
		Kind:    Classify(err),
		Message: describe(err),
		Err:     fmt.Errorf("sui rpc: %w", err),
	}
}
