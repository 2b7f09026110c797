package config

type Config struct {
	Server ServerConfig `yaml:"server"`
	Query  QueryConfig  `yaml:"query"`
	UI     UIConfig     `yaml:"ui"`
	Outbox OutboxConfig `yaml:"outbox"`
	Update UpdateConfig `yaml:"update"`
}

type ServerConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type QueryConfig struct {
	// DefaultMode is one of naive, local, global, mix, agent.
	DefaultMode string `yaml:"default_mode"`
	// RequireGraph gates agent/graph queries behind a graph readiness check.
	RequireGraph *bool `yaml:"require_graph"`
}

type UIConfig struct {
	Theme          string `yaml:"theme"`
	ShowToolDetail *bool  `yaml:"show_tool_detail"`
	ShowMindmap    *bool  `yaml:"show_mindmap"`
}

type OutboxConfig struct {
	// Dir holds locally spilled turns that failed to persist. Empty means
	// the platform default under the user config dir.
	Dir string `yaml:"dir"`
}

type UpdateConfig struct {
	CheckOnStartup *bool `yaml:"check_on_startup"`
}
