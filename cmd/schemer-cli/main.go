package main

import "schemer/cmd/schemer-cli/cmd"

func main() {
	cmd.Execute()
}
