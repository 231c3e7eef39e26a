package main

import "github.com/tracehq/trace-cli/cmd"

func main() {
	cmd.Execute()
}
