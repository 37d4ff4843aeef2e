package completion

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/core/fields"
	"onboarding/internal/domain/catalog"
)

// completeDataset fills every section of every default catalog entity.
func completeDataset() fields.Dataset {
	member := filled(OwnerDetailsFields, MemberFirmDetailsFields)
	funded := filled(AccountSetupFields, FundedSetupFields, AccountFirmDetailsFields)
	funded["fundingInstances"] = map[string]any{"ach": []any{map[string]any{"amount": json.Number("1000.50")}}}
	trust := filled(AccountSetupFields, TrustSetupFields, AccountFirmDetailsFields)
	trust["accountType"] = "trust"
	trust["fundingInstances"] = map[string]any{"wire": []any{map[string]any{"amount": "250"}}}

	return fields.Dataset{
		"john-smith":              member.Clone(),
		"mary-smith":              member.Clone(),
		"smith-family-trust":      member.Clone(),
		"joint-account":           funded.Clone(),
		"trust-account":           trust,
		"roth-ira-account":        funded.Clone(),
		"traditional-ira-account": funded.Clone(),
	}
}

func TestCompute_OnlyApplicableSections(t *testing.T) {
	cat := catalog.Default()
	st := Compute(cat, fields.Dataset{}, DefaultEngine())

	m := st.Map()
	for _, e := range cat.Entities() {
		require.Contains(t, m, e.ID)
		assert.Len(t, m[e.ID], len(e.Sections), e.ID)
		for s := range m[e.ID] {
			assert.True(t, e.HasSection(s), "%s has no %s", e.ID, s)
		}
	}
	_, hasFunding := m["traditional-ira-account"][catalog.SectionFunding]
	assert.False(t, hasFunding)

	assert.Equal(t, 16, st.TotalSections())
	assert.Equal(t, 0, st.CompletedSections())
	assert.Equal(t, 0, st.OverallProgress())
}

func TestCompute_Complete(t *testing.T) {
	cat := catalog.Default()
	st := Compute(cat, completeDataset(), DefaultEngine())

	assert.Equal(t, 100, st.OverallProgress())
	for _, e := range cat.Entities() {
		assert.True(t, st.IsEntityComplete(e.ID), e.ID)
	}
	for _, r := range cat.Registrations() {
		assert.True(t, st.IsRegistrationComplete(r.ID), r.ID)
	}
	assert.Empty(t, st.MissingAll())
	assert.True(t, decimal.RequireFromString("1000.50").Equal(st.FundingTotal("joint-account")))
	assert.True(t, decimal.NewFromInt(250).Equal(st.FundingTotal("trust-account")))
	assert.NotContains(t, st.FundingTotals(), "traditional-ira-account")
}

func TestCompute_RollupsAreConjunctions(t *testing.T) {
	cat := catalog.Default()
	data := completeDataset()
	data["mary-smith"]["householdIncome"] = ""

	st := Compute(cat, data, DefaultEngine())

	assert.False(t, st.IsSectionComplete("mary-smith", catalog.SectionFirmDetails))
	assert.True(t, st.IsSectionComplete("mary-smith", catalog.SectionOwnerDetails))
	assert.False(t, st.IsEntityComplete("mary-smith"))
	assert.Equal(t, []string{"householdIncome"}, st.Missing("mary-smith", catalog.SectionFirmDetails))

	// Every registration listing mary is incomplete, the others are not.
	for _, r := range cat.Registrations() {
		assert.Equal(t, !r.HasMember("mary-smith"), st.IsRegistrationComplete(r.ID), r.ID)
	}
	assert.False(t, st.IsRegistrationComplete("no-such-registration"))
	assert.False(t, st.IsEntityComplete("nobody"))
}

func TestCompute_AccountTypeOverridesSubtype(t *testing.T) {
	cat := catalog.Default()
	data := fields.Dataset{
		"joint-account": filled(AccountSetupFields, TrustSetupFields),
	}
	data["joint-account"]["accountType"] = "trust"

	st := Compute(cat, data, DefaultEngine())
	assert.True(t, st.IsSectionComplete("joint-account", catalog.SectionAccountSetup))

	data["joint-account"]["accountType"] = "joint"
	st = Compute(cat, data, DefaultEngine())
	assert.False(t, st.IsSectionComplete("joint-account", catalog.SectionAccountSetup))
	assert.Equal(t, FundedSetupFields, st.Missing("joint-account", catalog.SectionAccountSetup))
}

func TestOverallProgress_MonotoneAndBounded(t *testing.T) {
	cat := catalog.Default()
	full := completeDataset()
	data := fields.Dataset{}

	prev := Compute(cat, data, DefaultEngine()).OverallProgress()
	assert.Equal(t, 0, prev)

	for _, id := range full.IDs() {
		data[id] = full[id]
		p := Compute(cat, data, DefaultEngine()).OverallProgress()
		assert.GreaterOrEqual(t, p, prev)
		assert.LessOrEqual(t, p, 100)
		prev = p
	}
	assert.Equal(t, 100, prev)
}

func TestOverallProgress_Rounding(t *testing.T) {
	cat := catalog.Default()
	// One of sixteen sections: 6.25% rounds to 6.
	data := fields.Dataset{"john-smith": filled(OwnerDetailsFields)}
	assert.Equal(t, 6, Compute(cat, data, DefaultEngine()).OverallProgress())

	// Three of sixteen: 18.75% rounds to 19.
	data["john-smith"] = filled(OwnerDetailsFields, MemberFirmDetailsFields)
	data["mary-smith"] = filled(OwnerDetailsFields)
	assert.Equal(t, 19, Compute(cat, data, DefaultEngine()).OverallProgress())
}

func TestOverallProgress_EmptyCatalog(t *testing.T) {
	st := &Status{}
	assert.Equal(t, 0, st.OverallProgress())
}

func TestFundingTotal(t *testing.T) {
	dict := fields.Dictionary{
		"fundingInstances": map[string]any{
			"ach":   []any{map[string]any{"amount": json.Number("0.1")}, map[string]any{"amount": "0.2"}},
			"check": []any{map[string]any{"amount": "n/a"}, "garbage"},
		},
	}
	assert.Equal(t, "0.3", FundingTotal(dict).String())
	assert.True(t, FundingTotal(nil).IsZero())
}

func TestStatus_MissingIsCopied(t *testing.T) {
	cat := catalog.Default()
	data := completeDataset()
	data["mary-smith"]["householdIncome"] = ""
	st := Compute(cat, data, DefaultEngine())

	all := st.MissingAll()
	all["mary-smith"][catalog.SectionFirmDetails][0] = "changed"
	all["mary-smith"][catalog.SectionOwnerDetails] = []string{"name"}
	delete(all, "mary-smith")

	one := st.Missing("mary-smith", catalog.SectionFirmDetails)
	one[0] = "changed"

	assert.Equal(t, []string{"householdIncome"}, st.Missing("mary-smith", catalog.SectionFirmDetails))
	assert.Equal(t, map[string]map[catalog.Section][]string{
		"mary-smith": {catalog.SectionFirmDetails: {"householdIncome"}},
	}, st.MissingAll())
}
