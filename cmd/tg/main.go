package main

import (
	"fmt"
	"os"

	"tinygit/cmd/tg/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tg:", err)
		os.Exit(1)
	}
}
