package main

import (
	"fmt"
	"os"

	"lumen/internal/commands"
	"lumen/internal/logger"
)

var version = "dev"

func main() {
	commands.SetVersion(version)
	err := commands.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
