// Command bridgewatch runs the bridge monitor: it consumes canonical events, detects bridge
// transfers, evaluates alert rules and serves the management API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chainsafe/bridgewatch/pkg/app"
	"github.com/chainsafe/bridgewatch/pkg/app/monitor"
	"github.com/chainsafe/bridgewatch/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = monitor.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "bridgewatch: %v\n", err)
		os.Exit(1)
	}
}
