package main

import (
	"log"

	"github.com/makerfolio/makerfolio-go/api"
)

func main() {
	if err := api.Run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
