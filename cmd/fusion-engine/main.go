// Package main is the entry point for the fusion-engine CLI.
package main

import "fusion-engine/internal/cli"

func main() {
	cli.Execute()
}
