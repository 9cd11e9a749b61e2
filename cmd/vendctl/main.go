package main

import (
	"fmt"
	"os"

	"github.com/rl1809/vending-machine/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
