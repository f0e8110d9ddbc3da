// Command sitegen builds the static site from a running API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/sitegen"
	"github.com/ranganmag-api/pkg/logger"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		apiURL     string
		outDir     string
		configFile string
		logLevel   string
		timeout    time.Duration
	)

	flagSet := pflag.NewFlagSet("sitegen", pflag.ContinueOnError)
	flagSet.StringVar(&apiURL, "api", "http://localhost:5000/api", "API base URL to read published articles from")
	flagSet.StringVarP(&outDir, "out", "o", "./static-site/dist", "output directory for the generated site")
	flagSet.StringVarP(&configFile, "config", "c", "", "YAML site settings (title, tagline, base_url, files_url)")
	flagSet.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flagSet.DurationVar(&timeout, "timeout", 2*time.Minute, "overall generation timeout")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}

	log := logger.New(config.LogConfig{Level: logLevel, Format: "pretty"})

	meta, err := sitegen.LoadMeta(configFile)
	if err != nil {
		return err
	}

	gen, err := sitegen.NewGenerator(sitegen.NewHTTPSource(apiURL), outDir, meta, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return gen.Regenerate(ctx)
}
