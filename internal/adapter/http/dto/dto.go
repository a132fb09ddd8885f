package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ConnectRequest is the request body for POST /api/v1/session.
// An empty address selects the wallet's default account.
type ConnectRequest struct {
	Address string `json:"address" binding:"omitempty,sui_address"`
}

// SessionResponse is returned once when a session is opened.
type SessionResponse struct {
	Token   string `json:"token"`
	Account string `json:"account"`
	Network string `json:"network"`
	Expiry  int64  `json:"expiry"` // Unix timestamp
}

// SessionStateResponse describes the current connection.
type SessionStateResponse struct {
	Connected bool   `json:"connected"`
	Account   string `json:"account,omitempty"`
	Network   string `json:"network,omitempty"`
}

// BalanceResponse is the response for GET /api/v1/balance.
type BalanceResponse struct {
	Account   string `json:"account"`
	CoinType  string `json:"coin_type"`
	Balance   string `json:"balance"` // base units, decimal string
	Display   string `json:"display"`
	Available bool   `json:"available"`
}

// Amount is a display amount that may be sent as a JSON string or
// number. Numbers keep their literal digits.
type Amount string

// UnmarshalJSON accepts "1.5" and 1.5 alike.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or number")
	}
	*a = Amount(n.String())
	return nil
}

// TransferRequest is the request body for POST /api/v1/transfers.
// Fields are checked by the transfer pipeline, not by binding, so that
// every rejection is reported as a status line.
type TransferRequest struct {
	Recipient string `json:"recipient"`
	Amount    Amount `json:"amount"`
}

// StatusResponse is the single status line of a transfer request.
type StatusResponse struct {
	Kind        string `json:"kind"`
	Text        string `json:"text"`
	Digest      string `json:"digest,omitempty"`
	ExplorerURL string `json:"explorer_url,omitempty"`
}

// TransferResponse is the response for POST /api/v1/transfers.
type TransferResponse struct {
	State           string         `json:"state"`
	Status          StatusResponse `json:"status"`
	ErrorCode       string         `json:"error_code,omitempty"`
	Recipient       string         `json:"recipient,omitempty"`
	AmountBaseUnits string         `json:"amount_base_units,omitempty"`
}

// NetworkResponse describes the network the gateway is bound to.
type NetworkResponse struct {
	Network      string `json:"network"`
	CoinType     string `json:"coin_type"`
	ExplorerBase string `json:"explorer_base"`
	Decimals     int    `json:"decimals"`
}
