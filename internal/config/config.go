package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL      string
	SnapshotPath    string
	DiscordClientID string
}

// Load reads configuration from the environment, with a .env file as a
// convenience for local runs.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}

	snapshotPath := os.Getenv("SNAPSHOT_PATH")
	if snapshotPath == "" {
		snapshotPath = "console.db"
	}

	clientID := os.Getenv("DISCORD_CLIENT_ID")
	if clientID == "" {
		log.Println("Warning: DISCORD_CLIENT_ID not set, bot invite links will be incomplete")
	}

	return Config{
		APIBaseURL:      baseURL,
		SnapshotPath:    snapshotPath,
		DiscordClientID: clientID,
	}
}
