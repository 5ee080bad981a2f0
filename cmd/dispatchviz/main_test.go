package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phanxgames/dispatchviz/internal/cli"
	"github.com/phanxgames/dispatchviz/internal/ctxlog"
)

func TestRun_ShouldExit(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_BadFlag(t *testing.T) {
	err := run(&bytes.Buffer{}, []string{"-log-level", "loud", "x.hcl"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_MissingScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.hcl")
	err := run(&bytes.Buffer{}, []string{path})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read scenario")
}

func TestViewer_TitleAndSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.hcl")
	src := `
title  = "demo"
height = 500
element "div" {
  id = "a"
}
event "click" {
  target = "a"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	v, err := newViewer(ctx, &cli.Config{ScenarioPath: path, Width: 640, Tween: 0})
	require.NoError(t, err)

	w, h := v.windowSize()
	require.Equal(t, 640, w)
	require.Equal(t, 500, h)
	// A lone non-bubbling target dispatches at-target twice.
	require.Equal(t, 2, v.player.Len())
	require.Equal(t, "demo [1/2] at-target at div#a", v.title())
}
