// Package main runs the StreamFlow operator console in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/streamflow/console/config"
	"github.com/streamflow/console/internal/controller"
	"github.com/streamflow/console/internal/poller"
	"github.com/streamflow/console/internal/remote"
	"github.com/streamflow/console/internal/state"
)

func main() {
	var (
		file        = flag.String("file", "", "video file to publish")
		youtubeKey  = flag.String("youtube-key", "", "YouTube stream key (required to publish)")
		facebookKey = flag.String("facebook-key", "", "Facebook stream key (optional)")
		logFile     = flag.String("log", "", "write logs to this file")
	)
	flag.Parse()

	logger := newLogger(*logFile)
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	store := state.NewStore()
	store.SetCredentials(state.Credentials{YouTubeKey: *youtubeKey, FacebookKey: *facebookKey})
	if *file != "" {
		f, err := state.OpenLocalFile(*file)
		if err != nil {
			fmt.Fprintln(os.Stderr, "select file:", err)
			os.Exit(1)
		}
		store.SelectFile(f)
	}

	service := remote.NewClient(cfg.Stream.BaseURL, &http.Client{Timeout: cfg.Stream.RequestTimeout}, logger)
	ctrl := controller.New(store, service, poller.New(service, store, cfg.Stream.PollInterval, logger), logger)

	p := tea.NewProgram(newModel(context.Background(), ctrl, store.Snapshot()), tea.WithAltScreen())
	unsubscribe := store.Subscribe(func(s state.Snapshot) { p.Send(snapshotMsg(s)) })

	ctrl.Start()
	_, runErr := p.Run()
	unsubscribe()
	ctrl.Close()
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "console:", runErr)
		os.Exit(1)
	}
}

func newLogger(path string) *zap.Logger {
	if path == "" {
		return zap.NewNop()
	}
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
