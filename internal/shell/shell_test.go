package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitScriptZsh(t *testing.T) {
	script, err := InitScript("zsh")
	require.NoError(t, err)

	assert.Contains(t, script, `command scrn --action-file "$action_file"`)
	assert.Contains(t, script, `screen -X detach`)
	assert.Contains(t, script, "precmd_functions+=(_scrn_precmd)")
}

func TestInitScriptBash(t *testing.T) {
	script, err := InitScript("bash")
	require.NoError(t, err)

	assert.Contains(t, script, `command scrn --action-file "$action_file"`)
	assert.Contains(t, script, `PROMPT_COMMAND="_scrn_precmd;`)
	assert.NotContains(t, script, "precmd_functions")
}

func TestInitScriptUnsupported(t *testing.T) {
	_, err := InitScript("fish")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fish")
}
