package main

import "github.com/arbiterhq/arbiter/internal/cli"

func main() {
	cli.Execute()
}
