package planlimit_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelgrid/entitlements/pkg/planlimit"
)

const plansYAML = `
plans:
  starter:
    limits:
      unit_labels: {value: 1000, type: hard}
      box_labels: {value: 200, type: soft}
  growth:
    limits:
      unit_labels: {value: -1, type: hard}
`

func TestYAMLSource_Load(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plans.yml")
	require.NoError(t, os.WriteFile(path, []byte(plansYAML), 0o600))

	plans, err := planlimit.NewYAMLSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)

	starter := plans["starter"]
	assert.Equal(t, "starter", starter.PlanID)
	assert.Equal(t, planlimit.Limit{Value: 1000, Type: planlimit.LimitHard}, starter.Limits[planlimit.MetricUnitLabels])
	assert.Equal(t, planlimit.Limit{Value: 200, Type: planlimit.LimitSoft}, starter.Limits[planlimit.MetricBoxLabels])

	growth := plans["growth"]
	assert.Equal(t, planlimit.Unlimited, growth.Limits[planlimit.MetricUnitLabels].Value)
}

func TestYAMLSource_Load_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := planlimit.NewYAMLSource(filepath.Join(t.TempDir(), "nope.yml")).Load(context.Background())
	require.ErrorIs(t, err, planlimit.ErrSourceFileNotFound)
}

func TestYAMLSource_Load_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plans.yml")
	require.NoError(t, os.WriteFile(path, []byte("plans: ["), 0o600))

	_, err := planlimit.NewYAMLSource(path).Load(context.Background())
	require.ErrorIs(t, err, planlimit.ErrSourceFileMalformed)
}
