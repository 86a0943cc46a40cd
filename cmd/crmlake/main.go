package main

import (
	"os"

	"crmlake/cmd/crmlake/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
