package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/janekbaraniewski/synthload/internal/config"
	"github.com/janekbaraniewski/synthload/internal/tui"
)

func main() {
	if os.Getenv("SYNTHLOAD_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}
	tui.SetThemeByName(cfg.Theme)

	if err := newRootCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
