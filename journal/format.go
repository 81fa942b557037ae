package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatGainOrg renders a GainRecord as an Org-mode block suitable for
// pasting into a tax-notes file. Structured facts live in a PROPERTIES
// drawer for easy search; the Notes heading stays free-form.
func FormatGainOrg(g GainRecord) string {
	heading := fmt.Sprintf("** Gain: %s %s (%s)", g.Amount.String(), g.Asset, shortID(g.ID))
	acquired := g.AcquiredAt.UTC().Format(time.RFC3339)
	disposed := g.DisposedAt.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":GAIN_ID: %s\n", g.ID))
	b.WriteString(fmt.Sprintf(":RUN_ID: %s\n", g.RunID))
	b.WriteString(fmt.Sprintf(":ASSET: %s\n", g.Asset))
	b.WriteString(fmt.Sprintf(":AMOUNT: %s\n", g.Amount.String()))
	b.WriteString(fmt.Sprintf(":ACQUIRED: %s\n", acquired))
	b.WriteString(fmt.Sprintf(":DISPOSED: %s\n", disposed))
	b.WriteString(fmt.Sprintf(":COST_BASIS: %s\n", g.CostBasis.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":PROCEEDS: %s\n", g.Proceeds.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":GAIN: %s\n", g.Gain.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":TERM: %s\n", g.Term))
	b.WriteString(fmt.Sprintf(":ESTIMATED: %t\n", g.Estimated))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Notes\n- \n")

	return b.String()
}

// FormatGainsOrg renders multiple gains separated by blank lines.
func FormatGainsOrg(gains []GainRecord) string {
	var b strings.Builder
	for i, g := range gains {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatGainOrg(g))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
