package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DetectMode returns prod when running on Railway and dev otherwise.
func DetectMode() string {
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") != "" {
		return ModeProd
	}
	return ModeDev
}

// LoadDotEnv loads .env into the process environment outside production.
// Variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	if DetectMode() == ModeProd {
		return nil
	}
	return godotenv.Load(paths...)
}
