package config

import "time"

// Config holds runtime settings for the Quill CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API, including the /api/v1 prefix.
//   - NotificationsURL: websocket endpoint for the real-time notification stream.
//   - TokenDBPath: path of the local sqlite file holding the token pair.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerBaseURL    string
	NotificationsURL string
	TokenDBPath      string
	RequestTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000/api/v1"
	c.NotificationsURL = "ws://127.0.0.1:8000/ws/notifications/"
	c.TokenDBPath = "quill.db"
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
