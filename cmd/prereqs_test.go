package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPrereqsWritesReportToCommandOutput(t *testing.T) {
	var buf bytes.Buffer
	prereqsCmd.SetOut(&buf)
	defer prereqsCmd.SetOut(nil)

	err := runPrereqs(prereqsCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Prerequisite check:")
	assert.Contains(t, buf.String(), "git")
}
