package datev

import "strings"

// groupMatchFields are the columns whose values must agree for two booking
// lines to be merged.
var groupMatchFields = []string{
	HeadAccount,
	HeadCurrency,
	HeadTaxKey,
	HeadCost1,
	HeadCost2,
	HeadDebitCredit,
	HeadCounterAccount,
}

// GroupKey derives the aggregation key of a line from the group match fields.
func GroupKey(l *BookingLine) string {
	parts := make([]string, len(groupMatchFields))
	for i, f := range groupMatchFields {
		parts[i] = l.FieldValue(f)
	}
	return strings.Join(parts, "-")
}

// GroupLines merges booking lines that agree on all group match fields,
// summing their turnover and base turnover. All other columns keep the values
// of the group's first line, and first-seen order is preserved. Groups whose
// summed turnover is zero are dropped.
func GroupLines(lines []BookingLine) []BookingLine {
	grouped := make(map[string]*BookingLine, len(lines))
	order := make([]string, 0, len(lines))
	for i := range lines {
		key := GroupKey(&lines[i])
		g, ok := grouped[key]
		if !ok {
			cp := lines[i]
			grouped[key] = &cp
			order = append(order, key)
			continue
		}
		g.Amount = g.Amount.Add(lines[i].Amount)
		if lines[i].HasBase {
			g.BaseAmount = g.BaseAmount.Add(lines[i].BaseAmount)
			g.HasBase = true
		}
	}
	out := make([]BookingLine, 0, len(order))
	for _, key := range order {
		g := grouped[key]
		if g.Amount.IsZero() {
			continue
		}
		out = append(out, *g)
	}
	return out
}
