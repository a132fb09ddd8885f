package main

import (
	"os"

	"sui-transfer-gateway/cmd/walletctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
