package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warn: .env: %v", err)
	}
	if err := NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
