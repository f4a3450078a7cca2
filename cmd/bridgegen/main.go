// Package main is the entry point for the bridgegen CLI tool.
package main

import (
	"github.com/hargabyte/bridgegen/internal/cmd"
)

func main() {
	cmd.Execute()
}
