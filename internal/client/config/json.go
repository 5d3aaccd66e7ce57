package config

import (
	"encoding/json"
	"os"

	"github.com/prodshot/prodshot/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It is an intermediate DTO used only for reading JSON configuration files;
// after unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	ServerEndpointAddr string `json:"server_endpoint_addr"`
	GenAIAPIKey        string `json:"genai_api_key"`
	GenAIModel         string `json:"genai_model"`
	DatabasePath       string `json:"database_path"`
	DownloadDir        string `json:"download_dir"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ServerEndpointAddr = c.ServerEndpointAddr
	config.GenAIAPIKey = c.GenAIAPIKey
	config.GenAIModel = c.GenAIModel
	config.DatabasePath = c.DatabasePath
	config.DownloadDir = c.DownloadDir
}
