package main

import "github.com/andrescamacho/antbot-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
