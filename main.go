package main

import (
	"os"

	"github.com/jmwanja/resume-matcher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
