package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/jungletek/vms-storage-calc/pkg/config"
	"github.com/jungletek/vms-storage-calc/pkg/logger"
)

const banner = `
__   ____  __ ___   ___ _                            ___      _
\ \ / /  \/  / __| / __| |_ ___ _ _ __ _ __ _ ___   / __|__ _| |__
 \ V /| |\/| \__ \ \__ \  _/ _ \ '_/ _' / _' / -_) | (__/ _' | / _|
  \_/ |_|  |_|___/ |___/\__\___/_| \__,_\__, \___|  \___\__,_|_\__|
                                        |___/
`

func main() {
	cfg, err := config.ParseCfg(os.Args[1:])
	switch {
	case errors.Is(err, config.ErrHelp):
		cfg.WriteHelp(os.Stdout)
		return
	case errors.Is(err, config.ErrVersion):
		fmt.Println(config.Version)
		return
	case err != nil:
		logger.GetLogger().WithError(err).Error("Failed to parse config/args")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := logger.Configure(cfg.LogLevel, nil); err != nil {
		logger.GetLogger().WithError(err).Error("Invalid log level")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if showBanner(cfg) {
		fmt.Print(banner)
	}

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		logger.WrapError(err, map[string]interface{}{
			"command": commandName(cfg.Subcommand()),
			"output":  cfg.OutPath,
		})
		fmt.Fprintln(os.Stderr, "[ERROR]", err)
		os.Exit(1)
	}
}

// showBanner is true for the walkthrough and the interactive menu
func showBanner(cfg *config.Config) bool {
	if cfg.JSON || cfg.OutPath != "" {
		return false
	}
	switch cfg.Subcommand().(type) {
	case nil, *config.MenuCmd:
		return true
	default:
		return false
	}
}
