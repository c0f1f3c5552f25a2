package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/maktaba-search-api/cmd/maktabactl/cmd"
)

func main() {
	_ = godotenv.Load()
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
