package main

import (
	"os"

	"github.com/joho/godotenv"
	"jobdemand-go/internal/cli"
)

func main() {
	_ = godotenv.Load()
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
