package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/jwebster45206/scene-engine/internal/config"
	"github.com/jwebster45206/scene-engine/internal/console"
	"github.com/jwebster45206/scene-engine/internal/game"
	"github.com/jwebster45206/scene-engine/internal/logger"
	"github.com/jwebster45206/scene-engine/internal/services"
	"github.com/jwebster45206/scene-engine/internal/services/events"
	"github.com/jwebster45206/scene-engine/internal/storage"
	"github.com/jwebster45206/scene-engine/pkg/scenario"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play [scenario-file]",
		Short: "Play a scenario",
		Long: "Play a scenario file. Without an argument SCENARIO_PATH is used, and\n" +
			"without that you pick one of the scenarios under DATA_DIR/scenarios.",
		Args: cobra.MaximumNArgs(1),
		RunE: runPlay,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logOut, closeLog, err := logger.Output(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()
	if cfg.ConsoleMode == config.ConsoleTUI && cfg.LogFile == "" {
		// stderr would draw over the alt screen
		logOut = io.Discard
	}
	sessionID := uuid.New()
	log := logger.WithSession(logger.Setup(cfg, logOut), sessionID.String())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	store := storage.NewFileStore(cfg.DataDir, log)
	s, title, err := resolveScenario(ctx, store, args, cfg.ScenarioPath, in, out)
	if err != nil {
		return err
	}

	oracle, llm, model, err := services.NewOracle(cfg, log)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := llm.InitModel(ctx, model); err != nil {
		return fmt.Errorf("failed to initialize model %s: %w", model, err)
	}
	log.Info("Starting game", "scenario", title, "provider", cfg.LLMProvider, "model", model)

	opts := game.Options{Debug: cfg.Debug, Logger: log}
	if cfg.RedisURL != "" {
		client, err := events.Connect(ctx, cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				logger.WithError(log, err).Warn("Failed to close Redis client")
			}
		}()
		opts.Events = events.NewBroadcaster(client, sessionID, log)
	}

	var nav *game.Navigator
	switch cfg.ConsoleMode {
	case config.ConsoleTUI:
		tui := console.NewTUI(title)
		if nav, err = game.New(s, oracle, tui, opts); err != nil {
			return describe(err)
		}
		err = tui.Run(ctx, nav.Run)
	default:
		if nav, err = game.New(s, oracle, console.NewLine(in, out, 0), opts); err != nil {
			return describe(err)
		}
		err = nav.Run(ctx)
	}

	if playerLeft(err) {
		log.Info("Player left the game", "cursor", nav.Cursor().String())
		return nil
	}
	if err != nil {
		logger.WithError(log, err).Error("Game stopped", "cursor", nav.Cursor().String())
	}
	return describe(err)
}

// playerLeft reports whether the game ended because the player closed input,
// quit the terminal UI or interrupted the process.
func playerLeft(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, console.ErrQuit) || errors.Is(err, context.Canceled)
}

// describe labels scenario problems so they read as configuration errors.
func describe(err error) error {
	var cfgErr *scenario.ConfigError
	if errors.As(err, &cfgErr) {
		return fmt.Errorf("configuration error: %w", err)
	}
	return err
}

// resolveScenario loads the scenario named on the command line, then
// SCENARIO_PATH, then asks the player to choose from the store.
func resolveScenario(ctx context.Context, store *storage.FileStore, args []string, scenarioPath string, in *bufio.Reader, out io.Writer) (*scenario.Scenario, string, error) {
	path := scenarioPath
	if len(args) > 0 {
		path = args[0]
	}
	if path != "" {
		s, err := store.LoadScenario(ctx, path)
		if err != nil {
			return nil, "", err
		}
		return s, s.DisplayTitle(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))), nil
	}

	filename, title, err := chooseScenario(ctx, store, in, out)
	if err != nil {
		return nil, "", err
	}
	s, err := store.GetScenario(ctx, filename)
	if err != nil {
		return nil, "", err
	}
	return s, title, nil
}

// chooseScenario lists the store's scenarios by title and reads a number.
func chooseScenario(ctx context.Context, store storage.ScenarioStore, in *bufio.Reader, out io.Writer) (filename, title string, err error) {
	scenarios, err := store.ListScenarios(ctx)
	if err != nil {
		return "", "", err
	}
	if len(scenarios) == 0 {
		return "", "", fmt.Errorf("no scenarios found; pass a scenario file or set SCENARIO_PATH")
	}

	titles := make([]string, 0, len(scenarios))
	for t := range scenarios {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	if len(titles) == 1 {
		return scenarios[titles[0]], titles[0], nil
	}

	fmt.Fprintln(out, "Available scenarios:")
	for i, t := range titles {
		fmt.Fprintf(out, "%d. %s\n", i+1, t)
	}

	for {
		fmt.Fprintf(out, "Select a scenario (1-%d): ", len(titles))
		line, readErr := in.ReadString('\n')
		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil && choice >= 1 && choice <= len(titles) {
			t := titles[choice-1]
			return scenarios[t], t, nil
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return "", "", fmt.Errorf("no scenario selected")
			}
			return "", "", fmt.Errorf("failed to read selection: %w", readErr)
		}
		fmt.Fprintln(out, "Invalid selection.")
	}
}
