package main

import (
	"log"

	"mongovault/client/pkg/cmd"
)

func main() {
	rootCmd := cmd.New()
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
