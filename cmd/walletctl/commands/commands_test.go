package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sui-transfer-gateway/internal/adapter/signer"
	"sui-transfer-gateway/internal/adapter/sui/suitest"
	"sui-transfer-gateway/internal/bootstrap"
	"sui-transfer-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	node     *suitest.Node
	config   string
	keystore string
	account  domain.Address
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()

	node := suitest.NewNode()
	t.Cleanup(node.Close)

	ks, err := signer.NewKeystore(bytes.Repeat([]byte{5}, 32), bytes.Repeat([]byte{6}, 32))
	require.NoError(t, err)
	keystore := filepath.Join(dir, "sui.keystore")
	require.NoError(t, ks.Save(keystore))

	config := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
server:
  mode: "release"
network:
  active: "testnet"
  endpoints:
    testnet: %q
  request_timeout: "5s"
keystore:
  path: %q
session:
  secret: "walletctl-test-secret"
`, node.URL(), keystore)
	require.NoError(t, os.WriteFile(config, []byte(content), 0o600))

	return &env{node: node, config: config, keystore: keystore, account: ks.Accounts()[0]}
}

// enableJournal turns on database.enabled in the config file.
func (e *env) enableJournal(t *testing.T) {
	t.Helper()
	f, err := os.OpenFile(e.config, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.WriteString("database:\n  enabled: true\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func (e *env) run(args ...string) (stdout, stderr string, err error) {
	return e.runWith(bootstrap.Options{}, args...)
}

func (e *env) runWith(opts bootstrap.Options, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	root := newRootCommand(opts)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestAccounts(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run("accounts")
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "* "+e.account.String(), string(lines[0]))
	assert.True(t, bytes.HasPrefix(lines[1], []byte("  0x")))
}

func TestNewAccount_CreatesKeystore(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "fresh.keystore")

	out, _, err := e.run("--keystore", path, "new-account")
	require.NoError(t, err)

	ks, err := signer.LoadKeystore(path)
	require.NoError(t, err)
	require.Len(t, ks.Accounts(), 1)
	assert.Equal(t, ks.Accounts()[0].String()+"\n", out)

	_, _, err = e.run("--keystore", path, "new-account")
	require.NoError(t, err)
	ks, err = signer.LoadKeystore(path)
	require.NoError(t, err)
	assert.Len(t, ks.Accounts(), 2)
}

func TestBalance(t *testing.T) {
	e := newEnv(t)
	e.node.SetCoins(e.account,
		domain.CoinRecord{CoinObjectID: "0xc1", CoinType: domain.SuiCoinType, Balance: 1_000_000_000},
		domain.CoinRecord{CoinObjectID: "0xc2", CoinType: domain.SuiCoinType, Balance: 2_000_000_000},
	)

	out, _, err := e.run("balance")
	require.NoError(t, err)
	assert.Equal(t, "3.0000 SUI\n", out)

	out, _, err = e.run("balance", "0x0000000000000000000000000000000000000000000000000000000000000abc")
	require.NoError(t, err)
	assert.Equal(t, "0.0000 SUI\n", out)
}

func TestBalance_NodeDown(t *testing.T) {
	e := newEnv(t)
	e.node.FailHTTP(http.StatusBadGateway)

	out, errOut, err := e.run("balance")
	require.NoError(t, err)
	assert.Equal(t, "0.0000 SUI\n", out)
	assert.Contains(t, errOut, "balance unavailable")
}

func TestSend_Success(t *testing.T) {
	e := newEnv(t)
	e.node.SetCoins(e.account, domain.CoinRecord{CoinObjectID: "0xc1", CoinType: domain.SuiCoinType, Balance: 3_000_000_000})

	out, _, err := e.run("send", "--to", "0xb0b", "--amount", "1.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Transaction d1 completed")
	assert.Contains(t, out, "https://suiscan.xyz/testnet/tx/d1")

	pays := e.node.Pays()
	require.Len(t, pays, 1)
	assert.Equal(t, []string{"0xb0b"}, pays[0].Recipients)
	assert.Equal(t, []string{"1500000000"}, pays[0].Amounts)
	assert.Equal(t, 1, e.node.Calls("sui_executeTransactionBlock"))
}

func TestSend_InvalidAmount(t *testing.T) {
	e := newEnv(t)

	out, _, err := e.run("send", "--to", "0xb0b", "--amount", "abc")
	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, "Error: Amount must be a positive number of SUI\n", out)
	assert.Zero(t, e.node.Calls("unsafe_paySui"))
}

func TestSend_InsufficientBalance(t *testing.T) {
	e := newEnv(t)
	e.node.SetCoins(e.account, domain.CoinRecord{CoinObjectID: "0xc1", CoinType: domain.SuiCoinType, Balance: 100})

	out, _, err := e.run("send", "--to", "0xb0b", "--amount", "1")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Error: insufficient balance")
	assert.Zero(t, e.node.Calls("sui_executeTransactionBlock"))
}

func TestSend_UnknownSender(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.run("send", "--to", "0xb0b", "--amount", "1", "--from", "0xdead")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errReported)
}

func TestHistory_Disabled(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.run("history")
	assert.ErrorContains(t, err, "journal is disabled")
}

func journalRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "sender", "recipient", "amount_base_units", "network", "state",
		"digest", "failure_kind", "message", "created_at"})
}

func TestHistory_ListsJournal(t *testing.T) {
	e := newEnv(t)
	e.enableJournal(t)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS transfer_journal").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT .+ FROM transfer_journal WHERE sender").
		WithArgs(e.account.String(), 2).
		WillReturnRows(journalRows().
			AddRow(uuid.New(), e.account.String(), "0x1234567890abcdef", "1500000000", "testnet", "SUCCEEDED", "d1", "", "", at).
			AddRow(uuid.New(), e.account.String(), "0xb0b", "100", "testnet", "FAILED", "", "APPLICATION_REJECTED", "insufficient balance", at.Add(-time.Minute)))

	out, _, err := e.runWith(bootstrap.Options{Pool: mock}, "history", "--limit", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"TIME", "STATE", "RECIPIENT", "AMOUNT", "DIGEST", "/", "ERROR"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"2026-03-01", "12:30:00", "SUCCEEDED", "0x1234...cdef", "1.5000", "d1"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2026-03-01", "12:29:00", "FAILED", "0xb0b", "0.0000", "insufficient", "balance"}, strings.Fields(lines[2]))

	// Columns are aligned.
	assert.Equal(t, strings.Index(lines[0], "STATE"), strings.Index(lines[1], "SUCCEEDED"))
	assert.Equal(t, strings.Index(lines[0], "AMOUNT"), strings.Index(lines[2], "0.0000"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory_DefaultLimitAndAddress(t *testing.T) {
	e := newEnv(t)
	e.enableJournal(t)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS transfer_journal").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT .+ FROM transfer_journal WHERE sender").
		WithArgs("0xabc", 20).
		WillReturnRows(journalRows())

	out, _, err := e.runWith(bootstrap.Options{Pool: mock}, "history", "0xabc")
	require.NoError(t, err)
	assert.Equal(t, "TIME  STATE  RECIPIENT  AMOUNT  DIGEST / ERROR\n", out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistory_QueryFails(t *testing.T) {
	e := newEnv(t)
	e.enableJournal(t)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS transfer_journal").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT .+ FROM transfer_journal WHERE sender").
		WillReturnError(errors.New("connection reset"))

	_, _, err = e.runWith(bootstrap.Options{Pool: mock}, "history")
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "SUI", symbol("0x2::sui::SUI"))
	assert.Equal(t, "USDC", symbol("0xabc::usdc::USDC"))
	assert.Equal(t, "plain", symbol("plain"))
}
