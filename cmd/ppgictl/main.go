package main

import (
	"fmt"
	"os"

	"github.com/yanqian/ppgi-advisor/internal/cli"
)

var version = "dev" // overwritten at build time

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
