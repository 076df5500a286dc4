package main

import (
	"os"

	"github.com/capkit/capflow/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
