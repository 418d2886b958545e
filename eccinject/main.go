// Package main is the entry point of the eccinject command.
package main

import "github.com/sarchlab/eccinject/eccinject/cmd"

func main() {
	cmd.Execute()
}
