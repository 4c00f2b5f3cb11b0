package main

import (
	"os"

	"alfredoptarigan/resume-parser/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
