package cron

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RegisterJobs(t *testing.T) {
	mgr := NewCronManager("", nil)
	assert.Equal(t, defaultMetricsSpec, mgr.metricsSpec)
	require.NoError(t, mgr.RegisterJobs())
	assert.Len(t, mgr.engine.Entries(), 1)

	bad := NewCronManager("every now and then", nil)
	assert.Error(t, bad.RegisterJobs())
}

func TestInitCron(t *testing.T) {
	mgr := NewCronManager("0 0 0 1 1 *", nil)
	require.NoError(t, InitCron(mgr))
	defer mgr.Stop()
	assert.Len(t, mgr.engine.Entries(), 1)

	bad := NewCronManager("never", nil)
	err := InitCron(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"never"`)
	assert.Empty(t, bad.engine.Entries())
}
