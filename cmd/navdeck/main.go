package main

import (
	"log"

	"github.com/MrSnakeDoc/navdeck/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ navdeck failed: %v", err)
	}
}
