package main

import (
	"log"

	"github.com/minedex/minedex/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ minedex failed to start: %v", err)
	}
}
