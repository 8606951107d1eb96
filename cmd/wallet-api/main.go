package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chainsafe/token-wallet/pkg/app"
	"github.com/chainsafe/token-wallet/pkg/app/api"
	"github.com/chainsafe/token-wallet/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (environment only when empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = api.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "wallet-api: %v\n", err)
		os.Exit(1)
	}
}
