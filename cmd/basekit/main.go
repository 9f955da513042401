package main

import (
	"log"

	"github.com/tech-arch1tect/basekit"
)

func main() {
	application, err := basekit.New().WithAutoConfig().Build()
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}
