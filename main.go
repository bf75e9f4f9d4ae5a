package main

import (
	"os"

	"github.com/gregLibert/apdugen/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
