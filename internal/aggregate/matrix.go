package aggregate

import (
	"airdrop-tracker/internal/domain"
)

// EVMGroupID is the group all EVM-compatible chains share under the
// default grouping.
const EVMGroupID = "evm"

// GroupingFunc maps a chain to the matrix group it belongs to. Chains
// sharing a group ID are rendered as columns of one matrix.
type GroupingFunc func(*domain.Chain) string

// DefaultGrouping puts every EVM chain into the shared EVM matrix and
// gives each non-EVM chain a matrix of its own.
func DefaultGrouping(c *domain.Chain) string {
	if c.IsEVM {
		return EVMGroupID
	}
	return "chain:" + c.ChainID
}

// Matrix is one display table: wallet rows crossed with chain columns.
// Cells[row][col] is nil when the pair has no activity; an absent cell is
// distinct from a summary whose totals happen to be zero.
type Matrix struct {
	GroupID string
	Wallets []*domain.Wallet // rows, wallet insertion order
	Chains  []*domain.Chain  // columns, chain insertion order
	Cells   [][]*domain.WalletChainSummary
}

// ActiveRows derives a copy of the matrix keeping only wallets with at
// least one non-absent cell. Column set and ordering are unchanged.
func (m *Matrix) ActiveRows() *Matrix {
	out := &Matrix{
		GroupID: m.GroupID,
		Chains:  m.Chains,
	}
	for i, w := range m.Wallets {
		active := false
		for _, cell := range m.Cells[i] {
			if cell != nil {
				active = true
				break
			}
		}
		if active {
			out.Wallets = append(out.Wallets, w)
			out.Cells = append(out.Cells, m.Cells[i])
		}
	}
	return out
}

// BuildGroupedMatrices reshapes per-pair summaries into display matrices,
// one per group. Group order follows the first appearance of each group in
// chain insertion order; every matrix carries the full wallet list as rows.
// Pure function of its inputs: identical inputs yield identical matrices.
// Summary entries for pairs outside the wallet x chain grid are ignored.
func BuildGroupedMatrices(
	summaries map[PairKey]*domain.WalletChainSummary,
	wallets []*domain.Wallet,
	chains []*domain.Chain,
	grouping GroupingFunc,
) []*Matrix {
	if grouping == nil {
		grouping = DefaultGrouping
	}

	var matrices []*Matrix
	byGroup := make(map[string]*Matrix)

	for _, c := range chains {
		groupID := grouping(c)
		m, ok := byGroup[groupID]
		if !ok {
			m = &Matrix{GroupID: groupID, Wallets: wallets}
			byGroup[groupID] = m
			matrices = append(matrices, m)
		}
		m.Chains = append(m.Chains, c)
	}

	for _, m := range matrices {
		m.Cells = make([][]*domain.WalletChainSummary, len(m.Wallets))
		for i, w := range m.Wallets {
			row := make([]*domain.WalletChainSummary, len(m.Chains))
			for j, c := range m.Chains {
				row[j] = summaries[PairKey{WalletID: w.WalletID, ChainID: c.ChainID}]
			}
			m.Cells[i] = row
		}
	}

	return matrices
}

// BuildMatrices applies the default grouping and splits the result into
// the shared EVM matrix and the per-chain non-EVM matrices. The EVM matrix
// is always present, with zero columns when no EVM chain exists.
func BuildMatrices(
	summaries map[PairKey]*domain.WalletChainSummary,
	wallets []*domain.Wallet,
	chains []*domain.Chain,
) (*Matrix, []*Matrix) {
	matrices := BuildGroupedMatrices(summaries, wallets, chains, DefaultGrouping)

	evm := &Matrix{GroupID: EVMGroupID, Wallets: wallets, Cells: make([][]*domain.WalletChainSummary, len(wallets))}
	var nonEVM []*Matrix
	for _, m := range matrices {
		if m.GroupID == EVMGroupID {
			evm = m
		} else {
			nonEVM = append(nonEVM, m)
		}
	}
	return evm, nonEVM
}
