package main

import (
	"os"

	"tallybridge/cmd/tallybridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
