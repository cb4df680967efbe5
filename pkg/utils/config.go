package utils

import "os"

// ServerConfig is the process-level configuration for the API server.
type ServerConfig struct {
	Env          string
	Addr         string
	SnapshotSlot string
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		Env:          getEnv("APP_ENV", "development"),
		Addr:         getEnv("ARCLINKER_ADDR", ":8080"),
		SnapshotSlot: getEnv("ARCLINKER_SNAPSHOT_SLOT", "mla-data-v1"),
	}
}

// PublishConfig carries the settings needed to commit snapshots to the
// canonical repository. All four values are required for publishing.
type PublishConfig struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
}

func LoadPublishConfig() PublishConfig {
	return PublishConfig{
		Token:  os.Getenv("GITHUB_TOKEN"),
		Owner:  os.Getenv("REPO_OWNER"),
		Repo:   os.Getenv("REPO_NAME"),
		Branch: os.Getenv("REPO_DEFAULT_BRANCH"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
