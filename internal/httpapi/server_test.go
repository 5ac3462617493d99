package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdrop-tracker/internal/dataset"
	"airdrop-tracker/internal/events"
	"airdrop-tracker/internal/storage/memory"
	"airdrop-tracker/internal/tracker"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	trk := tracker.New(tracker.Options{
		WalletStore:       memory.NewWalletStore(),
		ChainStore:        memory.NewChainStore(),
		TransactionStore:  memory.NewTransactionStore(),
		StatsHistoryStore: memory.NewStatsHistoryStore(),
		Emitter:           events.NewRecorder(),
	})

	srv, err := NewServer(trk, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createWallet(t *testing.T, ts *httptest.Server, name string) walletResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/wallets", createWalletRequest{Name: name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[walletResponse](t, resp)
}

func createChain(t *testing.T, ts *httptest.Server, name string, isEVM bool) chainResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/chains", createChainRequest{Name: name, IsEVM: isEVM})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[chainResponse](t, resp)
}

func createTransaction(t *testing.T, ts *httptest.Server, walletID, chainID string, at int64, volume float64) transactionResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", createTransactionRequest{
		WalletID:  walletID,
		ChainID:   chainID,
		Timestamp: at,
		Volume:    volume,
		Gas:       0.1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[transactionResponse](t, resp)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestWallets_CreateListDetailDelete(t *testing.T) {
	ts := newTestServer(t)

	created := createWallet(t, ts, "Main")
	assert.NotEmpty(t, created.WalletID)
	assert.Equal(t, "Main", created.Name)
	assert.NotZero(t, created.Seq)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/wallets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]walletResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, created.WalletID, list[0].WalletID)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/wallets?id="+created.WalletID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[walletDetailResponse](t, resp)
	assert.Equal(t, "Main", detail.Wallet.Name)
	require.NotNil(t, detail.Verdict)
	assert.Equal(t, "CASUAL", detail.Verdict.Verdict)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/wallets?id="+created.WalletID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/wallets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]walletResponse](t, resp))
}

func TestWallets_ErrorMapping(t *testing.T) {
	ts := newTestServer(t)
	created := createWallet(t, ts, "Main")

	// Duplicate name conflicts.
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/wallets", createWalletRequest{Name: "Main"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Invalid name rejected.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/wallets", createWalletRequest{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown ID is a 404.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/wallets?id=missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Delete without id.
	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/wallets", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Referenced wallet cannot be deleted.
	chain := createChain(t, ts, "base", true)
	createTransaction(t, ts, created.WalletID, chain.ChainID, 1704067200000, 100)
	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/wallets?id="+created.WalletID, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Unsupported method.
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/wallets", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestChains_CreateGetDelete(t *testing.T) {
	ts := newTestServer(t)

	created := createChain(t, ts, "solana", false)
	assert.False(t, created.IsEVM)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/chains?id="+created.ChainID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[chainResponse](t, resp)
	assert.Equal(t, "solana", got.Name)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/chains", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]chainResponse](t, resp), 1)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/chains?id="+created.ChainID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/chains?id="+created.ChainID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransactions_CreatePageDelete(t *testing.T) {
	ts := newTestServer(t)
	wlt := createWallet(t, ts, "Main")
	chain := createChain(t, ts, "base", true)

	first := createTransaction(t, ts, wlt.WalletID, chain.ChainID, 1704067200000, 100)
	second := createTransaction(t, ts, wlt.WalletID, chain.ChainID, 1704153600000, 250)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/transactions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[pageResponse](t, resp)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Items, 2)
	// Newest first.
	assert.Equal(t, second.TransactionID, page.Items[0].TransactionID)
	assert.Equal(t, first.TransactionID, page.Items[1].TransactionID)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/transactions?pageSize=1&page=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[pageResponse](t, resp)
	require.Len(t, page.Items, 1)
	assert.Equal(t, first.TransactionID, page.Items[0].TransactionID)
	assert.Equal(t, 2, page.TotalPages)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/transactions?id="+first.TransactionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[transactionResponse](t, resp)
	assert.Equal(t, 100.0, got.Volume)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/transactions?id="+first.TransactionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/transactions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[pageResponse](t, resp).TotalCount)
}

func TestTransactions_Validation(t *testing.T) {
	ts := newTestServer(t)
	wlt := createWallet(t, ts, "Main")
	chain := createChain(t, ts, "base", true)

	// Unknown wallet reference.
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", createTransactionRequest{
		WalletID: "missing", ChainID: chain.ChainID, Timestamp: 1000, Volume: 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Negative volume.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/transactions", createTransactionRequest{
		WalletID: wlt.WalletID, ChainID: chain.ChainID, Timestamp: 1000, Volume: -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed page params.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/transactions?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/transactions?page=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed body.
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/transactions", bytes.NewReader([]byte("{nope")))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestDashboardAndStats(t *testing.T) {
	ts := newTestServer(t)
	wlt := createWallet(t, ts, "Main")
	evm := createChain(t, ts, "base", true)
	sol := createChain(t, ts, "solana", false)
	createTransaction(t, ts, wlt.WalletID, evm.ChainID, 1704067200000, 100)
	createTransaction(t, ts, wlt.WalletID, sol.ChainID, 1704153600000, 50)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[statsResponse](t, resp)
	assert.Equal(t, 2, stats.TotalTransactions)
	assert.Equal(t, 150.0, stats.TotalVolume)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dash := decode[dashboardResponse](t, resp)
	assert.Equal(t, 2, dash.Stats.TotalTransactions)
	require.NotNil(t, dash.EVM)
	assert.Equal(t, "evm", dash.EVM.GroupID)
	require.Len(t, dash.NonEVM, 1)
	require.Len(t, dash.Verdicts, 1)
	assert.Equal(t, "Main", dash.Verdicts[0].Name)
}

func TestSnapshotAndHistory(t *testing.T) {
	ts := newTestServer(t)
	wlt := createWallet(t, ts, "Main")
	chain := createChain(t, ts, "base", true)
	createTransaction(t, ts, wlt.WalletID, chain.ChainID, 1704067200000, 100)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/snapshot", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	snap := decode[snapshotResponse](t, resp)
	assert.Equal(t, 1, snap.Stats.TotalTransactions)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]snapshotResponse](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, snap.TakenAt, history[0].TakenAt)

	// A range before the snapshot is empty.
	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/history?from=0&to=%d", ts.URL, snap.TakenAt-1), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]snapshotResponse](t, resp))
}

func TestExportImport(t *testing.T) {
	source := newTestServer(t)
	wlt := createWallet(t, source, "Main")
	chain := createChain(t, source, "base", true)
	createTransaction(t, source, wlt.WalletID, chain.ChainID, 1704067200000, 100)

	resp := doJSON(t, http.MethodGet, source.URL+"/api/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	ds, err := dataset.ReadJSON(resp.Body)
	require.NoError(t, err)
	require.Len(t, ds.Wallets, 1)
	require.Len(t, ds.Transactions, 1)

	// Load the export into a fresh server.
	target := newTestServer(t)
	resp = doJSON(t, http.MethodPost, target.URL+"/api/import", ds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decode[map[string]int](t, resp)
	assert.Equal(t, 1, result["wallets_added"])
	assert.Equal(t, 1, result["chains_added"])
	assert.Equal(t, 1, result["transactions_added"])

	// Re-import skips everything.
	resp = doJSON(t, http.MethodPost, target.URL+"/api/import", ds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result = decode[map[string]int](t, resp)
	assert.Zero(t, result["wallets_added"])
	assert.Equal(t, 1, result["wallets_skipped"])

	// Broken references are rejected up front.
	bad := &dataset.Dataset{
		Transactions: []dataset.Transaction{{WalletID: "ghost", ChainID: "ghost", Timestamp: 1, Volume: 1}},
	}
	resp = doJSON(t, http.MethodPost, target.URL+"/api/import", bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
