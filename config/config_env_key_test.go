package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"autoMigrate":  true,
			"maxOpenConns": 10,
			"master": map[string]any{
				"userName": "user",
			},
		},
		"pubsub": map[string]any{
			"groupId": "",
			"topics": map[string]any{
				"productUpdated": "",
			},
		},
		"cache": map[string]any{
			"searchTtl": "15s",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_AUTOMIGRATE", want: "postgres.autoMigrate"},
		{envKey: "POSTGRES_MAXOPENCONNS", want: "postgres.maxOpenConns"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "PUBSUB_GROUPID", want: "pubsub.groupId"},
		{envKey: "PUBSUB_TOPICS_PRODUCTUPDATED", want: "pubsub.topics.productUpdated"},
		{envKey: "CACHE_SEARCHTTL", want: "cache.searchTtl"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
