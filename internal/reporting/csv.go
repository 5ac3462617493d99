package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the flat per-pair summary rows as CSV string.
func RenderCSV(rows []SummaryRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("wallet,address,chain,group,total_volume,total_gas,transactions,active_months,last_activity_ms\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.6f,%.6f,%d,%d,%d\n",
			r.WalletName,
			r.Address,
			r.ChainName,
			r.GroupID,
			r.TotalVolume,
			r.TotalGas,
			r.Transactions,
			r.ActiveMonths,
			r.LastActivity,
		))
	}

	return sb.String()
}
