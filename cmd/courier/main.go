package main

import (
	"os"

	"github.com/Backland-Labs/courier/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
