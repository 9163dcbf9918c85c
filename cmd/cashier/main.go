package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/Mshaban73/Cashier/internal/bootstrap"
	"github.com/Mshaban73/Cashier/internal/cli"
	"github.com/Mshaban73/Cashier/internal/config"
	"github.com/Mshaban73/Cashier/internal/logger"
	"github.com/Mshaban73/Cashier/internal/report"
	"github.com/Mshaban73/Cashier/internal/service"
)

var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it.")

func main() {
	cfg := config.Load()
	// Logs go to stderr so command output stays clean.
	log := logger.NewWithOutput(cfg.LogLevel, os.Stderr)
	if os.Getenv("LOG_LEVEL") == "" {
		log.SetLevel(logrus.WarnLevel)
	}

	var app *bootstrap.App
	env := &cli.Env{
		Out:      os.Stdout,
		Err:      os.Stderr,
		Renderer: report.New(cfg.Currency),
		Open: func(ctx context.Context) (*service.Service, error) {
			opened, err := bootstrap.Open(ctx, cfg, log)
			if err != nil {
				return nil, err
			}
			app = opened
			return opened.Service, nil
		},
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander, env)

	flag.Parse()
	env.Plain = *plain

	status := commander.Execute(context.Background())
	if app != nil {
		if err := app.Close(); err != nil {
			log.WithError(err).Warn("close error")
		}
	}
	os.Exit(int(status))
}
