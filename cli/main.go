package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	c := New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	if err := c.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func New() *cli.Command {
	return &cli.Command{
		Name:        "gokons",
		Usage:       "manage Perkons HD-01 kit banks on an SD card",
		Version:     "0.1.0",
		Description: "A command-line tool for listing, inspecting, deleting, and generating .KIT banks",
		Commands: []*cli.Command{
			listCommand(),
			inspectCommand(),
			deleteCommand(),
			randomizeCommand(),
			varyCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "card",
			Aliases: []string{"c"},
			Usage:   "SD card mount point (overrides config)",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a gokons TOML config file",
		},
		&cli.StringFlag{
			Name:  "log",
			Usage: "log file path",
		},
	}
}
