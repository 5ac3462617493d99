package httpapi

import (
	"airdrop-tracker/internal/aggregate"
	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/heuristic"
	"airdrop-tracker/internal/history"
	"airdrop-tracker/internal/tracker"
)

// Wire types for the JSON API. Domain structs stay storage-shaped; this
// package owns what goes over HTTP.

type walletResponse struct {
	WalletID  string `json:"wallet_id"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Seq       int64  `json:"seq"`
	CreatedAt int64  `json:"created_at"`
}

type chainResponse struct {
	ChainID   string `json:"chain_id"`
	Name      string `json:"name"`
	IsEVM     bool   `json:"is_evm"`
	Seq       int64  `json:"seq"`
	CreatedAt int64  `json:"created_at"`
}

type transactionResponse struct {
	TransactionID string  `json:"transaction_id"`
	WalletID      string  `json:"wallet_id"`
	ChainID       string  `json:"chain_id"`
	Timestamp     int64   `json:"timestamp"`
	ZeroVolume    bool    `json:"zero_volume"`
	Volume        float64 `json:"volume"`
	Gas           float64 `json:"gas"`
	Comment       string  `json:"comment,omitempty"`
	Seq           int64   `json:"seq"`
	CreatedAt     int64   `json:"created_at"`
}

type statsResponse struct {
	TotalVolume       float64 `json:"total_volume"`
	TotalGas          float64 `json:"total_gas"`
	TotalTransactions int     `json:"total_transactions"`
	PotentialAirdrops int     `json:"potential_airdrops"`
	UniqueActiveDays  int     `json:"unique_active_days"`
}

type snapshotResponse struct {
	TakenAt int64         `json:"taken_at"`
	Stats   statsResponse `json:"stats"`
}

type summaryResponse struct {
	WalletID      string  `json:"wallet_id"`
	ChainID       string  `json:"chain_id"`
	TotalVolume   float64 `json:"total_volume"`
	TotalGas      float64 `json:"total_gas"`
	Count         int     `json:"count"`
	LastTimestamp int64   `json:"last_timestamp"`
	LastDay       bool    `json:"last_day"`
	LastWeek      bool    `json:"last_week"`
	LastMonth     bool    `json:"last_month"`
	ActiveMonths  int     `json:"active_months"`
}

// matrixResponse keeps the grid shape: cells[row][col] is null for an
// absent pair, mirroring the nil cells of the aggregation engine.
type matrixResponse struct {
	GroupID string               `json:"group_id"`
	Wallets []walletResponse     `json:"wallets"`
	Chains  []chainResponse      `json:"chains"`
	Cells   [][]*summaryResponse `json:"cells"`
}

type criterionResponse struct {
	Name      string `json:"name"`
	Threshold string `json:"threshold"`
	Actual    string `json:"actual"`
	Pass      bool   `json:"pass"`
}

type verdictResponse struct {
	WalletID      string              `json:"wallet_id"`
	Name          string              `json:"name"`
	Verdict       string              `json:"verdict"`
	TotalVolume   float64             `json:"total_volume"`
	Criteria      []criterionResponse `json:"criteria"`
	Disqualifiers []criterionResponse `json:"disqualifiers"`
}

type deltaResponse struct {
	From               *snapshotResponse `json:"from"`
	VolumeChange       float64           `json:"volume_change"`
	VolumeChangePct    float64           `json:"volume_change_pct"`
	GasChange          float64           `json:"gas_change"`
	TransactionsChange int               `json:"transactions_change"`
	AirdropsChange     int               `json:"airdrops_change"`
	ActiveDaysChange   int               `json:"active_days_change"`
}

type dashboardResponse struct {
	Stats    statsResponse     `json:"stats"`
	EVM      *matrixResponse   `json:"evm"`
	NonEVM   []*matrixResponse `json:"non_evm"`
	Verdicts []verdictResponse `json:"verdicts"`
	Growth   *deltaResponse    `json:"growth"`
}

type pageResponse struct {
	Items      []transactionResponse `json:"items"`
	TotalCount int                   `json:"total_count"`
	TotalPages int                   `json:"total_pages"`
	PageIndex  int                   `json:"page_index"`
	PageSize   int                   `json:"page_size"`
}

type walletDetailResponse struct {
	Wallet    walletResponse    `json:"wallet"`
	Summaries []summaryResponse `json:"summaries"`
	Verdict   *verdictResponse  `json:"verdict"`
}

type createWalletRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type createChainRequest struct {
	Name  string `json:"name"`
	IsEVM bool   `json:"is_evm"`
}

type createTransactionRequest struct {
	WalletID   string  `json:"wallet_id"`
	ChainID    string  `json:"chain_id"`
	Timestamp  int64   `json:"timestamp"`
	ZeroVolume bool    `json:"zero_volume"`
	Volume     float64 `json:"volume"`
	Gas        float64 `json:"gas"`
	Comment    string  `json:"comment"`
}

func toWalletResponse(w *domain.Wallet) walletResponse {
	return walletResponse{
		WalletID:  w.WalletID,
		Name:      w.Name,
		Address:   w.Address,
		Seq:       w.Seq,
		CreatedAt: w.CreatedAt,
	}
}

func toChainResponse(c *domain.Chain) chainResponse {
	return chainResponse{
		ChainID:   c.ChainID,
		Name:      c.Name,
		IsEVM:     c.IsEVM,
		Seq:       c.Seq,
		CreatedAt: c.CreatedAt,
	}
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		TransactionID: t.TransactionID,
		WalletID:      t.WalletID,
		ChainID:       t.ChainID,
		Timestamp:     t.Timestamp,
		ZeroVolume:    t.ZeroVolume,
		Volume:        t.Volume,
		Gas:           t.Gas,
		Comment:       t.Comment,
		Seq:           t.Seq,
		CreatedAt:     t.CreatedAt,
	}
}

func toStatsResponse(s domain.GlobalStats) statsResponse {
	return statsResponse{
		TotalVolume:       s.TotalVolume,
		TotalGas:          s.TotalGas,
		TotalTransactions: s.TotalTransactions,
		PotentialAirdrops: s.PotentialAirdrops,
		UniqueActiveDays:  s.UniqueActiveDays,
	}
}

func toSnapshotResponse(s *domain.StatsSnapshot) *snapshotResponse {
	if s == nil {
		return nil
	}
	return &snapshotResponse{TakenAt: s.TakenAt, Stats: toStatsResponse(s.Stats)}
}

func toSummaryResponse(s *domain.WalletChainSummary) *summaryResponse {
	if s == nil {
		return nil
	}
	return &summaryResponse{
		WalletID:      s.WalletID,
		ChainID:       s.ChainID,
		TotalVolume:   s.TotalVolume,
		TotalGas:      s.TotalGas,
		Count:         s.Count,
		LastTimestamp: s.LastTimestamp,
		LastDay:       s.LastDay,
		LastWeek:      s.LastWeek,
		LastMonth:     s.LastMonth,
		ActiveMonths:  s.ActiveMonths,
	}
}

func toMatrixResponse(m *aggregate.Matrix) *matrixResponse {
	if m == nil {
		return nil
	}
	out := &matrixResponse{
		GroupID: m.GroupID,
		Wallets: make([]walletResponse, 0, len(m.Wallets)),
		Chains:  make([]chainResponse, 0, len(m.Chains)),
		Cells:   make([][]*summaryResponse, 0, len(m.Cells)),
	}
	for _, w := range m.Wallets {
		out.Wallets = append(out.Wallets, toWalletResponse(w))
	}
	for _, c := range m.Chains {
		out.Chains = append(out.Chains, toChainResponse(c))
	}
	for _, row := range m.Cells {
		cells := make([]*summaryResponse, 0, len(row))
		for _, cell := range row {
			cells = append(cells, toSummaryResponse(cell))
		}
		out.Cells = append(out.Cells, cells)
	}
	return out
}

func toCriterionResponses(crits []heuristic.CriterionResult) []criterionResponse {
	out := make([]criterionResponse, 0, len(crits))
	for _, c := range crits {
		out = append(out, criterionResponse{
			Name:      c.Name,
			Threshold: c.Threshold,
			Actual:    c.Actual,
			Pass:      c.Pass,
		})
	}
	return out
}

func toVerdictResponse(v *heuristic.WalletVerdict) *verdictResponse {
	if v == nil {
		return nil
	}
	return &verdictResponse{
		WalletID:      v.WalletID,
		Name:          v.Name,
		Verdict:       string(v.Verdict),
		TotalVolume:   v.TotalVolume,
		Criteria:      toCriterionResponses(v.Criteria),
		Disqualifiers: toCriterionResponses(v.Disqualifiers),
	}
}

func toDeltaResponse(d *history.Delta) *deltaResponse {
	if d == nil {
		return nil
	}
	return &deltaResponse{
		From:               toSnapshotResponse(d.From),
		VolumeChange:       d.VolumeChange,
		VolumeChangePct:    d.VolumeChangePct,
		GasChange:          d.GasChange,
		TransactionsChange: d.TransactionsChange,
		AirdropsChange:     d.AirdropsChange,
		ActiveDaysChange:   d.ActiveDaysChange,
	}
}

func toDashboardResponse(d *tracker.Dashboard) *dashboardResponse {
	out := &dashboardResponse{
		Verdicts: make([]verdictResponse, 0, len(d.Verdicts)),
		Growth:   toDeltaResponse(d.Growth),
	}
	if d.Result != nil {
		if d.Result.Stats != nil {
			out.Stats = toStatsResponse(*d.Result.Stats)
		}
		out.EVM = toMatrixResponse(d.Result.EVM)
		out.NonEVM = make([]*matrixResponse, 0, len(d.Result.NonEVM))
		for _, m := range d.Result.NonEVM {
			out.NonEVM = append(out.NonEVM, toMatrixResponse(m))
		}
	}
	for _, v := range d.Verdicts {
		if vr := toVerdictResponse(v); vr != nil {
			out.Verdicts = append(out.Verdicts, *vr)
		}
	}
	return out
}

func toPageResponse(p *aggregate.TransactionPage) *pageResponse {
	out := &pageResponse{
		Items:      make([]transactionResponse, 0, len(p.Items)),
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages,
		PageIndex:  p.PageIndex,
		PageSize:   p.PageSize,
	}
	for _, t := range p.Items {
		out.Items = append(out.Items, toTransactionResponse(t))
	}
	return out
}

func toWalletDetailResponse(d *tracker.WalletDetail) *walletDetailResponse {
	out := &walletDetailResponse{
		Wallet:    toWalletResponse(d.Wallet),
		Summaries: make([]summaryResponse, 0, len(d.Summaries)),
		Verdict:   toVerdictResponse(d.Verdict),
	}
	for _, s := range d.Summaries {
		if sr := toSummaryResponse(s); sr != nil {
			out.Summaries = append(out.Summaries, *sr)
		}
	}
	return out
}
