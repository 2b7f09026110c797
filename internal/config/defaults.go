package config

func boolPtr(b bool) *bool { return &b }

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
		},
		Query: QueryConfig{
			DefaultMode:  "agent",
			RequireGraph: boolPtr(true),
		},
		UI: UIConfig{
			Theme:          "default",
			ShowToolDetail: boolPtr(true),
			ShowMindmap:    boolPtr(true),
		},
		Update: UpdateConfig{
			CheckOnStartup: boolPtr(false),
		},
	}
}
