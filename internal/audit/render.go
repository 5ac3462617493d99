package audit

import (
	"fmt"
	"strings"
	"time"
)

// RenderText renders the audit report as a table for terminal output.
func RenderText(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Audit Report\n\n")
	sb.WriteString(fmt.Sprintf("Ran: %s\n\n", r.RanAt.Format(time.RFC3339)))

	sb.WriteString("| Check | Records | Status |\n")
	sb.WriteString("|-------|---------|--------|\n")
	for _, c := range r.Results {
		status := "FAIL"
		if c.Pass {
			status = "PASS"
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", c.Name, c.Checked, status))
	}
	sb.WriteString("\n")

	if r.AllPassed {
		sb.WriteString("All checks passed.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("%d of %d checks failed:\n", r.FailedChecks, len(r.Results)))
	for _, c := range r.Results {
		for _, v := range c.Violations {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, v))
		}
	}
	return sb.String()
}
