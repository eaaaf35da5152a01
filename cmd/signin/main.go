// Command signin serves the Google sign-in web front end.
package main

import (
	"os"

	"github.com/custodia-labs/signin/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
