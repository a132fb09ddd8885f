// Package suitest provides an in-process fake Sui full node for tests.
package suitest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"sui-transfer-gateway/internal/core/domain"

	"github.com/ethereum/go-ethereum/rpc"
)

// ChainID is returned by sui_getChainIdentifier.
const ChainID = "4c78adac"

// PayRequest is one recorded unsafe_paySui call.
type PayRequest struct {
	Signer     string
	InputCoins []string
	Recipients []string
	Amounts    []string
	GasBudget  string
}

// ExecuteRequest is one recorded sui_executeTransactionBlock call.
type ExecuteRequest struct {
	TxBytes    []byte
	Signatures []string
}

// nodeError is a JSON-RPC error with an explicit code.
type nodeError struct {
	code int
	msg  string
}

func (e *nodeError) Error() string  { return e.msg }
func (e *nodeError) ErrorCode() int { return e.code }

// Node is a fake full node serving the JSON-RPC methods the gateway uses
// through a go-ethereum rpc.Server.
type Node struct {
	srv *httptest.Server
	rpc *rpc.Server

	mu           sync.Mutex
	coins        map[string][]domain.CoinRecord
	pageSize     int
	digest       string
	effectsError string
	methodErrors map[string]*nodeError
	httpStatus   int
	execDelay    time.Duration
	calls        map[string]int
	pays         []PayRequest
	executes     []ExecuteRequest
}

// NewNode starts a fake node. Call Close when done.
func NewNode() *Node {
	n := &Node{
		rpc:          rpc.NewServer(),
		coins:        make(map[string][]domain.CoinRecord),
		pageSize:     50,
		digest:       "d1",
		methodErrors: make(map[string]*nodeError),
		calls:        make(map[string]int),
	}
	for namespace, svc := range map[string]interface{}{
		"sui":    &readAPI{n},
		"suix":   &coinAPI{n},
		"unsafe": &unsafeAPI{n},
	} {
		if err := n.rpc.RegisterName(namespace, svc); err != nil {
			panic(fmt.Sprintf("suitest: register %s: %v", namespace, err))
		}
	}
	n.srv = httptest.NewServer(http.HandlerFunc(n.serve))
	return n
}

// URL returns the node endpoint.
func (n *Node) URL() string { return n.srv.URL }

// Close stops the server.
func (n *Node) Close() {
	n.srv.Close()
	n.rpc.Stop()
}

// SetCoins replaces the coins owned by owner.
func (n *Node) SetCoins(owner domain.Address, coins ...domain.CoinRecord) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.coins[owner.String()] = coins
}

// SetPageSize sets the suix_getCoins page size.
func (n *Node) SetPageSize(size int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pageSize = size
}

// SetDigest sets the digest of the next executed transaction.
func (n *Node) SetDigest(digest string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.digest = digest
}

// FailEffects makes executed transactions fail on chain with msg.
func (n *Node) FailEffects(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.effectsError = msg
}

// FailMethod makes method answer with a JSON-RPC error object.
func (n *Node) FailMethod(method string, code int, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.methodErrors[method] = &nodeError{code: code, msg: msg}
}

// FailHTTP makes every request answer with the given HTTP status.
// Zero restores normal service.
func (n *Node) FailHTTP(status int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.httpStatus = status
}

// DelayExecute holds every sui_executeTransactionBlock call for d
// before answering. Other methods are not delayed.
func (n *Node) DelayExecute(d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.execDelay = d
}

// Calls returns how many times method was called.
func (n *Node) Calls(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

// Pays returns the recorded unsafe_paySui calls.
func (n *Node) Pays() []PayRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]PayRequest(nil), n.pays...)
}

// Executes returns the recorded sui_executeTransactionBlock calls.
func (n *Node) Executes() []ExecuteRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ExecuteRequest(nil), n.executes...)
}

// serve counts the call and applies FailHTTP before handing the request
// to the rpc server.
func (n *Node) serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		Method string `json:"method"`
	}
	_ = json.Unmarshal(body, &req)

	n.mu.Lock()
	n.calls[req.Method]++
	status := n.httpStatus
	n.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	n.rpc.ServeHTTP(w, r)
}

// failure returns the configured error for method, if any. Callers hold n.mu.
func (n *Node) failure(method string) error {
	if err, ok := n.methodErrors[method]; ok {
		return err
	}
	return nil
}

type readAPI struct{ n *Node }

// GetChainIdentifier serves sui_getChainIdentifier.
func (api *readAPI) GetChainIdentifier() (string, error) {
	api.n.mu.Lock()
	defer api.n.mu.Unlock()
	if err := api.n.failure("sui_getChainIdentifier"); err != nil {
		return "", err
	}
	return ChainID, nil
}

type effectsStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type executeResponse struct {
	Digest  string `json:"digest"`
	Effects struct {
		Status effectsStatus `json:"status"`
	} `json:"effects"`
}

// ExecuteTransactionBlock serves sui_executeTransactionBlock.
func (api *readAPI) ExecuteTransactionBlock(txBytes string, signatures []string, options map[string]bool, requestType *string) (*executeResponse, error) {
	n := api.n
	n.mu.Lock()
	delay := n.execDelay
	n.mu.Unlock()
	time.Sleep(delay)

	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failure("sui_executeTransactionBlock"); err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(txBytes)
	if err != nil {
		return nil, &nodeError{code: -32602, msg: "Invalid params: tx_bytes"}
	}
	n.executes = append(n.executes, ExecuteRequest{TxBytes: raw, Signatures: signatures})

	resp := &executeResponse{Digest: n.digest}
	resp.Effects.Status = effectsStatus{Status: "success"}
	if n.effectsError != "" {
		resp.Effects.Status = effectsStatus{Status: "failure", Error: n.effectsError}
	}
	return resp, nil
}

type coin struct {
	CoinType     string `json:"coinType"`
	CoinObjectID string `json:"coinObjectId"`
	Version      string `json:"version"`
	Digest       string `json:"digest"`
	Balance      string `json:"balance"`
}

type coinPage struct {
	Data        []coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

type coinAPI struct{ n *Node }

// GetCoins serves suix_getCoins. The cursor is the offset of the next page.
func (api *coinAPI) GetCoins(owner, coinType string, cursor *string, limit *int) (*coinPage, error) {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failure("suix_getCoins"); err != nil {
		return nil, err
	}

	var all []domain.CoinRecord
	for _, c := range n.coins[owner] {
		if coinType == "" || c.CoinType == "" || c.CoinType == coinType {
			all = append(all, c)
		}
	}

	start := 0
	if cursor != nil {
		start, _ = strconv.Atoi(*cursor)
	}
	size := n.pageSize
	if limit != nil && *limit > 0 && *limit < size {
		size = *limit
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	page := &coinPage{Data: make([]coin, 0, end-start), HasNextPage: end < len(all)}
	for _, c := range all[start:end] {
		ct := c.CoinType
		if ct == "" {
			ct = coinType
		}
		page.Data = append(page.Data, coin{
			CoinType:     ct,
			CoinObjectID: c.CoinObjectID,
			Version:      "1",
			Digest:       "coin-digest",
			Balance:      strconv.FormatUint(c.Balance, 10),
		})
	}
	if page.HasNextPage {
		next := strconv.Itoa(end)
		page.NextCursor = &next
	}
	return page, nil
}

type unsafeAPI struct{ n *Node }

type payResponse struct {
	TxBytes string `json:"txBytes"`
}

// PaySui serves unsafe_paySui. The returned transaction bytes are the
// JSON encoding of the recorded request.
func (api *unsafeAPI) PaySui(signer string, inputCoins, recipients, amounts []string, gasBudget string) (*payResponse, error) {
	n := api.n
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.failure("unsafe_paySui"); err != nil {
		return nil, err
	}

	pay := PayRequest{Signer: signer, InputCoins: inputCoins, Recipients: recipients, Amounts: amounts, GasBudget: gasBudget}
	n.pays = append(n.pays, pay)

	raw, err := json.Marshal(pay)
	if err != nil {
		return nil, err
	}
	return &payResponse{TxBytes: base64.StdEncoding.EncodeToString(raw)}, nil
}
