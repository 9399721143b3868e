package main

import (
	"log"

	"github.com/findmylink/companion/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ companion failed to start: %v", err)
	}
}
