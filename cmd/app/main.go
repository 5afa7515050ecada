package main

import (
	"log"
	"os"

	"github.com/andreyxaxa/thumbnail-worker/config"
	"github.com/andreyxaxa/thumbnail-worker/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// Config
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	if _, err := os.Stat(envFile); err == nil {
		err = godotenv.Load(envFile)
		if err != nil {
			log.Fatalf("config error: %s", err)
		}
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Run
	app.Run(cfg)
}
