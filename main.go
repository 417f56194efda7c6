package main

import (
	"os"

	"github.com/faunapedia/api-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
