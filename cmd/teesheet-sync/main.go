package main

import (
	"os"

	"github.com/pfrederiksen/teesheet-sync/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
