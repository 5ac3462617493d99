package aggregate

import (
	"fmt"
	"sort"

	"airdrop-tracker/internal/domain"
)

// TransactionPage is one window of a wallet's reverse-chronological
// transaction listing.
type TransactionPage struct {
	Items      []*domain.Transaction
	TotalCount int
	TotalPages int
	PageIndex  int
	PageSize   int
}

// Page filters the log to one wallet, sorts by timestamp descending with
// ascending insertion sequence as the stable tie-break, and slices the
// window [pageIndex*pageSize, (pageIndex+1)*pageSize). An empty walletID
// disables the filter and pages the whole log.
//
// A pageIndex beyond the last page yields empty Items, not an error. The
// paginator holds no state between calls; deleting a transaction shifts
// positions, so callers re-query after mutations.
//
// Returns ErrInvalidPageRequest (wrapped) on a negative pageIndex or a
// non-positive pageSize.
func Page(txs []*domain.Transaction, walletID string, pageIndex, pageSize int) (*TransactionPage, error) {
	if pageIndex < 0 {
		return nil, fmt.Errorf("page index %d is negative: %w", pageIndex, ErrInvalidPageRequest)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("page size %d is not positive: %w", pageSize, ErrInvalidPageRequest)
	}

	var filtered []*domain.Transaction
	for _, t := range txs {
		if t != nil && (walletID == "" || t.WalletID == walletID) {
			filtered = append(filtered, t)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Timestamp != filtered[j].Timestamp {
			return filtered[i].Timestamp > filtered[j].Timestamp
		}
		return filtered[i].Seq < filtered[j].Seq
	})

	totalCount := len(filtered)
	totalPages := (totalCount + pageSize - 1) / pageSize

	start := pageIndex * pageSize
	end := start + pageSize
	if start > totalCount {
		start = totalCount
	}
	if end > totalCount {
		end = totalCount
	}

	items := make([]*domain.Transaction, 0, end-start)
	items = append(items, filtered[start:end]...)

	return &TransactionPage{
		Items:      items,
		TotalCount: totalCount,
		TotalPages: totalPages,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
	}, nil
}
