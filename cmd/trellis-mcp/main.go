package main

import (
	"os"

	"github.com/awantoch/trellis-mcp/utils"
	"github.com/joho/godotenv"
)

var exit = os.Exit

func main() {
	_ = godotenv.Load()
	err := NewRootCmd().Execute()
	utils.Sync()
	if err != nil {
		exit(1)
	}
}
