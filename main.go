package main

import (
	"log"

	"github.com/ddaniel27/gitlogue/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		log.Fatalf("gitlogue: %v", err)
	}
}
