package main

import (
	"os"

	"coach-ai/backend/internal/app"
)

// @title           Coach AI API
// @version         1.0
// @description     Squash coaching chat backed by an OpenAI-compatible provider.
// @host            localhost:8000
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
