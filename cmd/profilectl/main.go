package main

import (
	"os"

	"github.com/KirkDiggler/clash-profile-bot/cmd/profilectl/commands"
	"github.com/KirkDiggler/clash-profile-bot/internal/config"
)

func main() {
	config.LoadDotEnv()

	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
