package main

import (
	"os"

	"github.com/jakoblorz/go-workspace/internal/cli"
	"github.com/jakoblorz/go-workspace/internal/models"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(models.ExitCode(err))
	}
}
