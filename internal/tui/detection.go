package tui

import (
	"os"

	"golang.org/x/term"
)

// ciEnvs are environment variables set by common CI systems.
var ciEnvs = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_HOME",
	"BUILDKITE",
	"TF_BUILD",
}

// isTerminalFn is swapped in tests.
var isTerminalFn = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}

// IsInteractive reports whether prompts can be shown: stdout is a terminal
// and no CI environment is detected.
func IsInteractive() bool {
	if !isTerminalFn() {
		return false
	}
	return !IsCI()
}

// IsCI reports whether a CI environment variable is set.
func IsCI() bool {
	for _, env := range ciEnvs {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}
