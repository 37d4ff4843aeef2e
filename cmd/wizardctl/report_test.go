package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/internal/core/fields"
	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/completion"
	"onboarding/internal/domain/snapshot"
)

func TestBuildReport_Defaults(t *testing.T) {
	cat := catalog.Default()
	st := completion.Compute(cat, snapshot.Defaults(), completion.DefaultEngine())

	r := buildReport("s1", cat, st)
	assert.Equal(t, 19, r.Progress)
	assert.Equal(t, 3, r.Completed)
	assert.Equal(t, 16, r.Total)
	require.Len(t, r.Entities, 7)

	john := r.Entities[0]
	assert.Equal(t, "john-smith", john.ID)
	assert.False(t, john.Complete)
	assert.Empty(t, john.Funding)
	require.Len(t, john.Sections, 2)
	assert.True(t, john.Sections[0].Complete)
	assert.Equal(t, []string{"marketScenarioResponse"}, john.Sections[1].Missing)

	joint := r.Entities[3]
	assert.Equal(t, "joint-account", joint.ID)
	assert.Equal(t, "15000.00", joint.Funding)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, report{SessionID: "s1", Progress: 50}))
	assert.Contains(t, buf.String(), "session: s1")
	assert.Contains(t, buf.String(), "progress: 50")
}

func TestCheckDataset(t *testing.T) {
	cat := catalog.Default()
	assert.NoError(t, checkDataset(cat, snapshot.Defaults()))
	assert.Error(t, checkDataset(cat, fields.Dataset{"nobody": {}}))
}
