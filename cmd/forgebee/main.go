package main

import (
	"os"

	"github.com/forgebee/forgebee/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
