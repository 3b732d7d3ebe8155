package env

import "os"

func IsGithubAction() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

func IsGithubDebugMode() bool {
	return os.Getenv("RUNNER_DEBUG") == "true"
}

func LogLevel() string {
	return os.Getenv("ACTIONSMITH_LOG_LEVEL")
}

// Returns true when generation should ignore the change-detection cache.
func ForceGeneration() bool {
	return os.Getenv("ACTIONSMITH_FORCE") == "true"
}
