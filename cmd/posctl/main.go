// posctl drives the cart and print collections against the configured store.
//
// Usage:
//
//	posctl <cart|print> add '{"productId":"P1","name":"Soap","price":10}'
//	posctl <cart|print> inc <productId>
//	posctl <cart|print> dec <productId>
//	posctl <cart|print> rm <productId>
//	posctl <cart|print> clear
//	posctl <cart|print> list [-o table|json|yaml]
//
// The store, codec and keys come from the POS_* environment variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/RahulVervebot/pims-sub002/config"
	"github.com/RahulVervebot/pims-sub002/logging"
	"github.com/RahulVervebot/pims-sub002/logic"
	"github.com/RahulVervebot/pims-sub002/pos"
	"github.com/RahulVervebot/pims-sub002/tracing"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
	exitInvalidArgument
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: posctl <cart|print> <command> [flags] [args]")
	fmt.Fprintln(w, "Commands: add <json>, inc <id>, dec <id>, rm <id>, clear, list [-o table|json|yaml]")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		usage(stderr)
		return exitUsage
	}
	collection, command := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitFailure
	}

	logger, err := logging.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return exitFailure
	}
	defer logger.Sync()

	shutdown, err := tracing.Init(cfg.TraceStdout, stderr, logger)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer shutdown(context.WithoutCancel(ctx))

	app, err := pos.Open(ctx, cfg,
		pos.WithLogger(logger),
		pos.WithDiagnostics(func(name string, err error) {
			fmt.Fprintf(stderr, "warning: %s: %v\n", name, err)
		}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening store: %v\n", err)
		return exitFailure
	}

	code := dispatch(app, collection, command, args[2:], stdout, stderr)
	if err := app.Close(context.WithoutCancel(ctx)); err != nil {
		fmt.Fprintf(stderr, "Error closing store: %v\n", err)
		if code == exitOK {
			code = exitFailure
		}
	}
	return code
}

func exitCode(err error) int {
	var cmdErr *logic.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == logic.StatusInvalidArgument {
		return exitInvalidArgument
	}
	return exitFailure
}
