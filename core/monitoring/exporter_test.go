package monitoring_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-forge/core/monitoring"
)

func TestExporterCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	exp := monitoring.NewExporter(reg)

	exp.JobSubmitted()
	exp.JobSubmitted()
	exp.JobFinished(false, 0.5)
	exp.JobFinished(true, 0.1)
	exp.SetPending(3)

	families, err := reg.Gather()
	require.NoError(t, err)
	byName := map[string]bool{}
	for _, f := range families {
		byName[f.GetName()] = true
	}
	for _, name := range []string{
		"assetforge_jobs_submitted_total",
		"assetforge_jobs_completed_total",
		"assetforge_jobs_failed_total",
		"assetforge_jobs_pending",
		"assetforge_generation_duration_seconds",
	} {
		assert.True(t, byName[name], name)
	}

	count, err := testutil.GatherAndCount(reg, "assetforge_jobs_submitted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilExporterIsSafe(t *testing.T) {
	var exp *monitoring.Exporter

	// all recording methods must be no-ops on a nil exporter
	exp.JobSubmitted()
	exp.JobFinished(false, 1.0)
	exp.JobFinished(true, 1.0)
	exp.SetPending(5)
}
