// Package shell generates the shell-integration wrapper scripts. The
// wrapper runs scrn with an action file; after scrn exits it evaluates
// whatever action was written there, detouring through a pending file
// plus a prompt hook when the wrapper itself runs inside a screen
// session (the action must run in the outer shell, after detach).
package shell

import "fmt"

// InitScript returns the integration script for the named shell.
func InitScript(shell string) (string, error) {
	switch shell {
	case "zsh":
		return zshScript, nil
	case "bash":
		return bashScript, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (use 'zsh' or 'bash')", shell)
	}
}

const wrapperBody = `scrn() {
    local action_file
    action_file=$(mktemp "${TMPDIR:-/tmp}/scrn-action.XXXXXX")

    command scrn --action-file "$action_file" "$@"

    if [ -f "$action_file" ]; then
        local action
        action=$(cat "$action_file")
        rm -f "$action_file"

        if [ -n "$action" ]; then
            if [ -n "$STY" ]; then
                # Inside a screen session: park the action for the
                # outer shell's prompt hook, then detach.
                local pending_file="${TMPDIR:-/tmp}/scrn-pending-$$-$(date +%s)"
                echo "$action" > "$pending_file"
                echo "$pending_file" > "${TMPDIR:-/tmp}/scrn-pending-path"
                screen -X detach
            else
                eval "$action"
            fi
        fi
    else
        rm -f "$action_file"
    fi
}

_scrn_precmd() {
    local pending_path_file="${TMPDIR:-/tmp}/scrn-pending-path"
    if [ -f "$pending_path_file" ]; then
        local pending_file
        pending_file=$(cat "$pending_path_file")
        rm -f "$pending_path_file"
        if [ -f "$pending_file" ]; then
            local action
            action=$(cat "$pending_file")
            rm -f "$pending_file"
            if [ -n "$action" ]; then
                eval "$action"
            fi
        fi
    fi
}
`

const zshScript = `# scrn shell integration (zsh)
# Add to .zshrc: eval "$(scrn init zsh)"

` + wrapperBody + `
if [[ -z "${precmd_functions[(r)_scrn_precmd]}" ]]; then
    precmd_functions+=(_scrn_precmd)
fi
`

const bashScript = `# scrn shell integration (bash)
# Add to .bashrc: eval "$(scrn init bash)"

` + wrapperBody + `
PROMPT_COMMAND="_scrn_precmd;${PROMPT_COMMAND}"
`
