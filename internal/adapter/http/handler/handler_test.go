package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sui-transfer-gateway/config"
	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/internal/core/ports/mocks"
	"sui-transfer-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var connected = domain.SessionState{Connected: true, Account: "0xA", Network: domain.NetworkTestnet}

type testServer struct {
	router    *gin.Engine
	sessions  *mocks.MockSessionService
	balances  *mocks.MockBalanceService
	transfers *mocks.MockTransferService
	health    *mocks.MockHealthChecker
}

func newTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)
	s := &testServer{
		sessions:  mocks.NewMockSessionService(ctrl),
		balances:  mocks.NewMockBalanceService(ctrl),
		transfers: mocks.NewMockTransferService(ctrl),
		health:    mocks.NewMockHealthChecker(ctrl),
	}
	s.router = SetupRouter(RouterDeps{
		TransferSvc: s.transfers,
		BalanceSvc:  s.balances,
		SessionSvc:  s.sessions,
		Network: config.NetworkConfig{
			Active:       "testnet",
			CoinType:     domain.SuiCoinType,
			ExplorerBase: "https://suiscan.xyz",
		},
		HealthCheckers: []ports.HealthChecker{s.health},
		Metrics:        http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("# metrics")) }),
		Mode:           gin.TestMode,
		Logger:         zerolog.Nop(),
	})
	return s
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data: %s", w.Body.String())
	return data
}

// --- Session ---

func TestConnect_Success(t *testing.T) {
	s := newTestServer(t)
	expires := time.Unix(1_900_000_000, 0)

	s.sessions.EXPECT().Resolve(gomock.Any(), "").Return(domain.Disconnected())
	s.sessions.EXPECT().Connect(gomock.Any(), "0xA").Return(&ports.SessionGrant{
		Token: "tok", Account: "0xA", Network: domain.NetworkTestnet, ExpiresAt: expires,
	}, nil)

	w := s.do(http.MethodPost, "/api/v1/session", "", map[string]string{"address": "0xA"})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "tok", data["token"])
	assert.Equal(t, "0xA", data["account"])
	assert.Equal(t, "testnet", data["network"])
	assert.Equal(t, float64(1_900_000_000), data["expiry"])
}

func TestConnect_EmptyBodyUsesDefault(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "").Return(domain.Disconnected())
	s.sessions.EXPECT().Connect(gomock.Any(), "").Return(&ports.SessionGrant{Token: "tok", Account: "0xA"}, nil)

	w := s.do(http.MethodPost, "/api/v1/session", "", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestConnect_BadAddress(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "").Return(domain.Disconnected())

	w := s.do(http.MethodPost, "/api/v1/session", "", map[string]string{"address": "not-an-address"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "SYS_002")
}

func TestConnect_UnknownAccount(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "").Return(domain.Disconnected())
	s.sessions.EXPECT().Connect(gomock.Any(), "0xdead").Return(nil, apperror.ErrUnknownAccount())

	w := s.do(http.MethodPost, "/api/v1/session", "", map[string]string{"address": "0xdead"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDisconnect(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "tok").Return(connected)
	s.sessions.EXPECT().Disconnect(gomock.Any(), "tok").Return(nil)

	w := s.do(http.MethodDelete, "/api/v1/session", "tok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeData(t, w)["connected"])
}

func TestDisconnect_NoToken(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "").Return(domain.Disconnected())

	w := s.do(http.MethodDelete, "/api/v1/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SES_001")
}

func TestCurrentSession(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "tok").Return(connected)

	w := s.do(http.MethodGet, "/api/v1/session", "tok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["connected"])
	assert.Equal(t, "0xA", data["account"])
}

// --- Balance ---

func TestGetBalance(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "tok").Return(connected)
	s.balances.EXPECT().GetBalance(gomock.Any(), domain.Address("0xA")).Return(domain.BalanceView{
		Owner: "0xA", CoinType: domain.SuiCoinType, BaseUnits: 3_000_000_000, Display: "3.0000", Available: true,
	})

	w := s.do(http.MethodGet, "/api/v1/balance", "tok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "3.0000", data["display"])
	assert.Equal(t, "3000000000", data["balance"])
	assert.Equal(t, true, data["available"])
}

func TestGetBalance_Degraded(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "tok").Return(connected)
	s.balances.EXPECT().GetBalance(gomock.Any(), gomock.Any()).Return(domain.BalanceView{
		Owner: "0xA", Display: "0.0000",
	})

	w := s.do(http.MethodGet, "/api/v1/balance", "tok", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "0.0000", data["display"])
	assert.Equal(t, false, data["available"])
}

func TestGetBalance_NotConnected(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "").Return(domain.Disconnected())

	w := s.do(http.MethodGet, "/api/v1/balance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Transfers ---

func TestSend_Success(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "tok").Return(connected)

	outcome := domain.Succeeded("d1")
	s.transfers.EXPECT().Send(gomock.Any(), connected, "0xB", "1.5").Return(&ports.TransferReport{
		State:   domain.TransferStateSucceeded,
		Status:  domain.StatusMessage{Kind: domain.StatusSuccess, Text: "ok d1", Digest: "d1", ExplorerURL: "https://suiscan.xyz/testnet/tx/d1"},
		Intent:  &domain.TransferIntent{Sender: "0xA", Recipient: "0xB", AmountBaseUnits: 1_500_000_000},
		Outcome: &outcome,
	})

	w := s.do(http.MethodPost, "/api/v1/transfers", "tok", map[string]interface{}{"recipient": "0xB", "amount": 1.5})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "SUCCEEDED", data["state"])
	assert.Equal(t, "1500000000", data["amount_base_units"])
	status := data["status"].(map[string]interface{})
	assert.Equal(t, "success", status["kind"])
	assert.Equal(t, "https://suiscan.xyz/testnet/tx/d1", status["explorer_url"])
}

func TestSend_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not connected", domain.ErrNotConnected, http.StatusUnauthorized, "VAL_001"},
		{"missing recipient", domain.ErrMissingRecipient, http.StatusBadRequest, "VAL_002"},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest, "VAL_003"},
		{"in progress", apperror.ErrTransferInProgress(), http.StatusConflict, "TX_004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.sessions.EXPECT().Resolve(gomock.Any(), "").Return(domain.Disconnected())
			s.transfers.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&ports.TransferReport{
				State:     domain.TransferStateRejected,
				Status:    domain.StatusMessage{Kind: domain.StatusRejected, Text: "Error: x"},
				Rejection: tt.err,
			})

			w := s.do(http.MethodPost, "/api/v1/transfers", "", map[string]string{"recipient": "0xB", "amount": "1"})
			assert.Equal(t, tt.status, w.Code)
			data := decodeData(t, w)
			assert.Equal(t, tt.code, data["error_code"])
			assert.Equal(t, "REJECTED", data["state"])
		})
	}
}

func TestSend_Failure(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "tok").Return(connected)

	outcome := domain.Failed(domain.FailureApplicationRejected, "insufficient balance")
	s.transfers.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(&ports.TransferReport{
		State:   domain.TransferStateFailed,
		Status:  domain.StatusMessage{Kind: domain.StatusFailure, Text: "Error: insufficient balance"},
		Outcome: &outcome,
	})

	w := s.do(http.MethodPost, "/api/v1/transfers", "tok", map[string]string{"recipient": "0xB", "amount": "1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "TX_002", data["error_code"])
	assert.Equal(t, "Error: insufficient balance", data["status"].(map[string]interface{})["text"])
}

func TestSend_MalformedJSON(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "").Return(domain.Disconnected())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Network, health, metrics ---

func TestNetwork(t *testing.T) {
	s := newTestServer(t)
	s.sessions.EXPECT().Resolve(gomock.Any(), "").Return(domain.Disconnected())

	w := s.do(http.MethodGet, "/api/v1/network", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "testnet", data["network"])
	assert.Equal(t, float64(9), data["decimals"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	s.health.EXPECT().Name().Return("sui").AnyTimes()
	s.health.EXPECT().Ping(gomock.Any()).Return(nil)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestHealth_Degraded(t *testing.T) {
	s := newTestServer(t)
	s.health.EXPECT().Name().Return("sui").AnyTimes()
	s.health.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "degraded")
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# metrics")
}
