// Package main is the entry point for the oxmut CLI.
package main

import "github.com/oxmut/oxmut/cmd"

func main() {
	cmd.Execute()
}
