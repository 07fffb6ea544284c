package main

import (
	"log"
	"os"

	"github.com/orderledger/backend/config"
)

func main() {
	if err := newRootCommand(config.Load).Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stderr)
}
