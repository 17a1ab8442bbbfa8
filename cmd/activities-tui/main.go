package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mergington/activities-tui/internal/app"
	"github.com/mergington/activities-tui/internal/client"
	"github.com/mergington/activities-tui/internal/config"
	"github.com/mergington/activities-tui/internal/controller"
	"github.com/mergington/activities-tui/internal/session"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	baseURL := flag.String("url", "", "Base URL of the activities backend (overrides config)")
	sessionID := flag.String("session-id", "", "Session id to resume (validated on startup)")
	logFile := flag.String("log-file", "", "Write logs to this file (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}

	// Flags win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.Server.BaseURL = *baseURL
		case "session-id":
			cfg.Server.SessionID = *sessionID
		case "log-file":
			cfg.Log.File = *logFile
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config:\n%v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	sess := session.New()
	if cfg.Server.SessionID != "" {
		sess.Seed(cfg.Server.SessionID)
	}

	api := client.NewHTTPClient(cfg.Server.BaseURL, cfg.Server.Timeout, logger.With("component", "client"))
	ctrl := controller.New(api, sess, controller.Options{
		AuthMessageDelay:    cfg.Messages.AuthDelay,
		OutcomeMessageDelay: cfg.Messages.OutcomeDelay,
		Logger:              logger.With("component", "controller"),
	})

	m := app.New(ctrl, cfg.UI.MarkdownStyle)
	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, opts...)

	logger.Info("starting", "base_url", cfg.Server.BaseURL, "resume_session", cfg.Server.SessionID != "")
	final, err := p.Run()
	if fm, ok := final.(app.Model); ok {
		fm.Close()
	}
	if err != nil {
		logger.Error("program exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a text logger on cfg.File. With no file configured the
// logs are discarded: the terminal belongs to the UI.
func newLogger(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, err
	}

	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f.Close, nil
}
