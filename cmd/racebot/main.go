// Package main provides racebot, a CLI participant for keydash races.
// It can host a race or join one, typing the reference text at a fixed
// speed — handy for demos and for load-testing the channel.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/keydash/keydash/internal/client"
	"github.com/keydash/keydash/internal/config"
	"github.com/keydash/keydash/internal/race"
)

var (
	serverURL  string
	playerName string
	avatar     string
	university string
	role       string
	botWPM     int
	duration   time.Duration
	players    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "racebot",
		Short:         "Bot participant for keydash typing races",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "keydash server base URL")
	rootCmd.PersistentFlags().StringVar(&playerName, "name", "racebot", "display name")
	rootCmd.PersistentFlags().StringVar(&avatar, "avatar", "robot", "avatar reference")
	rootCmd.PersistentFlags().StringVar(&university, "university", "", "optional university")
	rootCmd.PersistentFlags().StringVar(&role, "role", "", "optional role")
	defaultDuration := 60 * time.Second
	if cfg, err := config.Load(); err == nil {
		defaultDuration = cfg.RaceDuration
	}

	rootCmd.PersistentFlags().IntVar(&botWPM, "wpm", 60, "typing speed in words per minute")
	rootCmd.PersistentFlags().DurationVar(&duration, "duration", defaultDuration, "race duration (RACE_DURATION)")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Host a new race and type once enough players joined",
		RunE:  runCreate,
	}
	createCmd.Flags().IntVar(&players, "players", race.MinPlayers, "players to wait for before starting")

	joinCmd := &cobra.Command{
		Use:   "join <session-id>",
		Short: "Join an existing race and type",
		Args:  cobra.ExactArgs(1),
		RunE:  runJoin,
	}

	rootCmd.AddCommand(createCmd, joinCmd)
	return rootCmd
}

func newRacer(ctx context.Context, logger *slog.Logger) (*client.Racer, error) {
	c, err := client.Dial(ctx, serverURL)
	if err != nil {
		return nil, err
	}
	return &client.Racer{
		Client: c,
		Player: race.Participant{
			ID:     uuid.NewString(),
			Name:   playerName,
			Avatar: avatar,
			Profile: race.Profile{
				University: university,
				Role:       role,
			},
		},
		WPM:      botWPM,
		Duration: duration,
		Clock:    clockwork.NewRealClock(),
		Logger:   logger,
	}, nil
}

func runCreate(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	racer, err := newRacer(ctx, logger)
	if err != nil {
		return err
	}
	defer racer.Client.Close()

	sessionID, err := racer.Create(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "session %s created, waiting for %d players\n", sessionID, players)

	if err := racer.WaitForPlayers(ctx, players); err != nil {
		return err
	}

	reference, err := fetchParagraph(ctx, serverURL)
	if err != nil {
		return fmt.Errorf("fetching reference text: %w", err)
	}
	if err := racer.Start(ctx, sessionID, reference); err != nil {
		return err
	}

	result, err := racer.Race(ctx, sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "raw %d wpm, correct %d wpm, accuracy %.0f%%\n",
		result.RawWPM, result.WPM, result.Accuracy)
	return nil
}

func runJoin(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	racer, err := newRacer(ctx, logger)
	if err != nil {
		return err
	}
	defer racer.Client.Close()

	sessionID := args[0]
	if err := racer.Join(ctx, sessionID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "joined session %s\n", sessionID)

	result, err := racer.Race(ctx, sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "raw %d wpm, correct %d wpm, accuracy %.0f%%\n",
		result.RawWPM, result.WPM, result.Accuracy)
	return nil
}

func fetchParagraph(ctx context.Context, baseURL string) ([]string, error) {
	url := strings.TrimRight(baseURL, "/") + "/api/paragraphs"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body struct {
		Words []string `json:"words"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Words, nil
}
