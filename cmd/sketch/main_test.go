package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/whiteboard/internal/action"
)

func TestActionsCommandListsSortedNames(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"actions"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(action.Defaults().Names()))
	assert.True(t, strings.HasPrefix(lines[0], action.BringForward))
	assert.Contains(t, out.String(), "Undo")
}
