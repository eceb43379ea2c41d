package main

import (
	"content-feedback/internal/cli"
)

func main() {
	cli.Execute()
}
