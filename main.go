// Package main is the entry point for the sema CLI.
package main

import "cnext.dev/pkg/sema/cmd"

func main() {
	cmd.Execute()
}
