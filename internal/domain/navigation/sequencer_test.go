package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/domain/catalog"
)

func member(id string, s catalog.Section) catalog.Target  { return catalog.MemberTarget(id, s) }
func account(id string, s catalog.Section) catalog.Target { return catalog.AccountTarget(id, s) }

func TestNext(t *testing.T) {
	seq := NewSequencer(catalog.Default())

	tests := []struct {
		name string
		from catalog.Target
		want catalog.Target
	}{
		{"within member", member("john-smith", catalog.SectionOwnerDetails), member("john-smith", catalog.SectionFirmDetails)},
		{"member boundary", member("john-smith", catalog.SectionFirmDetails), member("mary-smith", catalog.SectionOwnerDetails)},
		{"last member to first account", member("smith-family-trust", catalog.SectionFirmDetails), account("joint-account", catalog.SectionAccountSetup)},
		{"within account", account("joint-account", catalog.SectionAccountSetup), account("joint-account", catalog.SectionFunding)},
		{"account boundary", account("roth-ira-account", catalog.SectionFirmDetails), account("traditional-ira-account", catalog.SectionAccountSetup)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := seq.Next(tt.from)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The traditional IRA has a single section and is the last account.
func TestNext_Terminal(t *testing.T) {
	seq := NewSequencer(catalog.Default())
	last := account("traditional-ira-account", catalog.SectionAccountSetup)

	_, ok := seq.Next(last)
	assert.False(t, ok)
	assert.False(t, seq.CanGoNext(last))
	assert.True(t, seq.CanGoPrevious(last))

	got, ok := seq.Last()
	require.True(t, ok)
	assert.Equal(t, last, got)
}

func TestPrevious(t *testing.T) {
	seq := NewSequencer(catalog.Default())

	tests := []struct {
		name string
		from catalog.Target
		want catalog.Target
	}{
		{"within member", member("mary-smith", catalog.SectionFirmDetails), member("mary-smith", catalog.SectionOwnerDetails)},
		{"member boundary", member("mary-smith", catalog.SectionOwnerDetails), member("john-smith", catalog.SectionFirmDetails)},
		{"first account wraps to last member", account("joint-account", catalog.SectionAccountSetup), member("smith-family-trust", catalog.SectionFirmDetails)},
		{"account boundary", account("trust-account", catalog.SectionAccountSetup), account("joint-account", catalog.SectionFirmDetails)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := seq.Previous(tt.from)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrevious_Initial(t *testing.T) {
	seq := NewSequencer(catalog.Default())
	first, ok := seq.First()
	require.True(t, ok)
	assert.Equal(t, member("john-smith", catalog.SectionOwnerDetails), first)

	_, ok = seq.Previous(first)
	assert.False(t, ok)
	assert.False(t, seq.CanGoPrevious(first))
}

func TestRoundTrip(t *testing.T) {
	seq := NewSequencer(catalog.Default())
	steps := seq.Steps()
	require.Len(t, steps, 16)

	for _, step := range steps {
		if next, ok := seq.Next(step); ok {
			back, ok := seq.Previous(next)
			require.True(t, ok)
			assert.Equal(t, step, back, "previous(next(%v))", step)
		}
		if prev, ok := seq.Previous(step); ok {
			fwd, ok := seq.Next(prev)
			require.True(t, ok)
			assert.Equal(t, step, fwd, "next(previous(%v))", step)
		}
	}
}

func TestMemberAccountBoundaryPair(t *testing.T) {
	seq := NewSequencer(catalog.Default())
	lastMember := member("smith-family-trust", catalog.SectionFirmDetails)
	firstAccount := account("joint-account", catalog.SectionAccountSetup)

	got, _ := seq.Next(lastMember)
	assert.Equal(t, firstAccount, got)
	got, _ = seq.Previous(firstAccount)
	assert.Equal(t, lastMember, got)
}

func TestInvalidTargetsAreNoOps(t *testing.T) {
	seq := NewSequencer(catalog.Default())

	for _, tgt := range []catalog.Target{
		{},
		member("nobody", catalog.SectionOwnerDetails),
		member("john-smith", catalog.SectionFunding),
		account("traditional-ira-account", catalog.SectionFunding),
		{Section: catalog.SectionOwnerDetails, MemberID: "john-smith", AccountID: "joint-account"},
	} {
		_, ok := seq.Next(tgt)
		assert.False(t, ok, "%+v", tgt)
		_, ok = seq.Previous(tgt)
		assert.False(t, ok, "%+v", tgt)
		assert.Equal(t, -1, seq.Position(tgt))
	}
}

func TestSequencer_RespectsCatalogSections(t *testing.T) {
	cat, err := catalog.New(
		[]catalog.Entity{{ID: "m", Subtype: catalog.SubtypeIndividual, Sections: []catalog.Section{catalog.SectionFirmDetails}}},
		[]catalog.Entity{{ID: "a", Subtype: catalog.SubtypeRothIRA, Sections: []catalog.Section{catalog.SectionAccountSetup, catalog.SectionFirmDetails}}},
		[]catalog.Registration{{ID: "r", Members: []string{"m"}, Accounts: []string{"a"}}},
	)
	require.NoError(t, err)
	seq := NewSequencer(cat)

	assert.Equal(t, []catalog.Target{
		member("m", catalog.SectionFirmDetails),
		account("a", catalog.SectionAccountSetup),
		account("a", catalog.SectionFirmDetails),
	}, seq.Steps())
}
