package main

import "github.com/agentic-research/cardweave/cmd"

func main() {
	cmd.Execute()
}
