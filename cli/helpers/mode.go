package helpers

import (
	"os"

	"github.com/mattn/go-isatty"
)

// isRunningInCI checks if we're running in a CI/CD environment
func isRunningInCI() bool {
	if os.Getenv("CI") != "" {
		return true
	}
	ciVars := []string{
		"JENKINS_HOME",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"BUILDKITE",
		"DRONE",
		"TF_BUILD",           // Azure DevOps
		"BITBUCKET_COMMIT",   // Bitbucket Pipelines
		"CODEBUILD_BUILD_ID", // AWS CodeBuild
		"TEAMCITY_VERSION",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	Fd() uintptr
}

func isTerminal(w any) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DetectFormat turns the configured format into a concrete one. auto picks a
// table for interactive terminals and JSON for pipes and CI.
func DetectFormat(configured string, out any) OutputFormat {
	switch OutputFormat(configured) {
	case OutputFormatJSON:
		return OutputFormatJSON
	case OutputFormatTable:
		return OutputFormatTable
	}
	if isRunningInCI() || !isTerminal(out) {
		return OutputFormatJSON
	}
	if os.Getenv("TERM") == "dumb" {
		return OutputFormatJSON
	}
	return OutputFormatTable
}
