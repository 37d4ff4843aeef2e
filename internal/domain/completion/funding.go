package completion

import (
	"github.com/shopspring/decimal"

	"onboarding/internal/core/fields"
)

// FundingTotal sums the amount of every funding instance in dict.
// Instances without a parseable amount contribute nothing.
func FundingTotal(dict fields.Dictionary) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range fundingInstances(dict) {
		m, ok := inst.(map[string]any)
		if !ok {
			continue
		}
		if amount, ok := fields.ToDecimal(m[FieldFundingAmount]); ok {
			total = total.Add(amount)
		}
	}
	return total
}

func fundingInstances(dict fields.Dictionary) []any {
	if byType := dict.GetMap(FieldFundingInstances); byType != nil {
		var all []any
		for _, list := range byType {
			all = append(all, fields.AsList(list)...)
		}
		return all
	}
	return dict.GetList(FieldFundingInstances)
}
