// Package config handles configuration for the CLI client,
// including defaults, JSON overlay, and command-line flags.
package config

import "os"

// Config holds runtime settings for the prodshot CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
//   - GenAIAPIKey: API key for the generative image service.
//   - GenAIModel: model identifier passed to the generation endpoint.
//   - DatabasePath: path of the local SQLite metadata database.
//   - DownloadDir: directory where downloaded gallery images are written.
type Config struct {
	ServerEndpointAddr string
	GenAIAPIKey        string
	GenAIModel         string
	DatabasePath       string
	DownloadDir        string
}

// LoadDefaults populates c with sensible defaults. The API key is taken
// from the GENAI_API_KEY environment variable so it never has to appear
// on the command line.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.GenAIAPIKey = os.Getenv("GENAI_API_KEY")
	c.GenAIModel = "gemini-2.5-flash-image-preview"
	c.DatabasePath = "prodshot.db"
	c.DownloadDir = "downloads"
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
