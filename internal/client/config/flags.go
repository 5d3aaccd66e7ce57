package config

import (
	"flag"
	"os"

	"github.com/prodshot/prodshot/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   server base URL (e.g., "http://127.0.0.1:8080")
//	-k string   generative image API key
//	-m string   generative image model identifier
//	-f string   local SQLite database path
//	-o string   download directory
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-m", "-f", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "a", config.ServerEndpointAddr, "server base URL")
	fs.StringVar(&config.GenAIAPIKey, "k", config.GenAIAPIKey, "generative image API key")
	fs.StringVar(&config.GenAIModel, "m", config.GenAIModel, "generative image model")
	fs.StringVar(&config.DatabasePath, "f", config.DatabasePath, "local database path")
	fs.StringVar(&config.DownloadDir, "o", config.DownloadDir, "download directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
