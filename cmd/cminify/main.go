package main

import (
	"os"

	"cminify/internal/cliapp"
)

func main() {
	os.Exit(cliapp.Run(os.Args[1:]))
}
