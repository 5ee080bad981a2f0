// Command dispatchviz opens a window that steps through the dispatch of the
// event described by an HCL scenario file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/phanxgames/dispatchviz"
	"github.com/phanxgames/dispatchviz/internal/cli"
	"github.com/phanxgames/dispatchviz/internal/ctxlog"
	"github.com/phanxgames/dispatchviz/internal/metrics"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses arguments, loads the scenario and drives the window.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := ctxlog.New(os.Stderr, cfg.Level())
	ctx := ctxlog.WithLogger(context.Background(), logger)

	v, err := newViewer(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		m := metrics.New()
		v.attachMetrics(m)
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Serving metrics.", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed.", "error", err)
			}
		}()
		defer srv.Close()
	}

	width, height := v.windowSize()
	return dispatchviz.Run(v.scene, dispatchviz.RunConfig{
		Title:   v.title(),
		Width:   width,
		Height:  height,
		ShowFPS: cfg.Debug,
		Update:  v.update,
	})
}
