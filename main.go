package main

import (
	"log"

	"github.com/thiagokokada/gitref/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("gitref: %v", err)
	}
}
