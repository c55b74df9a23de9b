package main

import (
	"happy/internal/cli"
)

func main() {
	cli.Execute()
}
