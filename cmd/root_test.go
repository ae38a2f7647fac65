package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "dedupe", "classify", "analyze", "export", "runs", "serve"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestRunFlags(t *testing.T) {
	for _, flag := range []string{"out", "plan", "resume", "classify", "batch-size", "threshold", "cutoff"} {
		assert.NotNil(t, runCmd.Flags().Lookup(flag), "run --%s", flag)
	}
}

func TestRunsSubcommands(t *testing.T) {
	subs := make(map[string]bool)
	for _, c := range runsCmd.Commands() {
		subs[c.Name()] = true
	}
	assert.True(t, subs["list"])
	assert.True(t, subs["show"])
}

func TestLoadPlanDispatch(t *testing.T) {
	p, err := loadPlan("warehouse")
	require.NoError(t, err)
	assert.Equal(t, "warehouse", p.Name)

	_, err = loadPlan("no-such-plan")
	require.Error(t, err)

	_, err = loadPlan("missing-file.yaml")
	require.Error(t, err)
}
