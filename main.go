package main

import (
	"github.com/purpose168/lightstyler/internal/cmd"
)

func main() {
	cmd.Execute()
}
