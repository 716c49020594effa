// Command fivea is the Fivea roster and team generation CLI.
//
// Usage:
//
//	fivea generate --file roster.yaml
//	fivea generate --file roster.csv --owner 7 --json
//	fivea import --file roster.csv
//	fivea sync
//	fivea export --file roster.csv
//	fivea migrate
//	fivea matches process --max 10 --workers 2
//	fivea matches generate --id 42
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/fivea/internal/config"
	"github.com/albapepper/fivea/internal/db"
	"github.com/albapepper/fivea/internal/maintenance"
	"github.com/albapepper/fivea/internal/match"
	"github.com/albapepper/fivea/internal/roster"
	"github.com/albapepper/fivea/internal/sheets"
	"github.com/albapepper/fivea/internal/store"
	"github.com/albapepper/fivea/internal/teams"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "fivea",
		Short:         "Fivea five-a-side team generator",
		SilenceUsage:  true,
	}

	root.AddCommand(generateCmd())
	root.AddCommand(importCmd())
	root.AddCommand(syncCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(matchesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// generate command
// --------------------------------------------------------------------------

func generateCmd() *cobra.Command {
	var (
		file    string
		owner   string
		asJSON  bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate two teams from a roster file (yaml, json or csv)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			f, err := roster.LoadFile(file)
			if err != nil {
				return err
			}
			if err := roster.CheckPlayers(f.Players); err != nil {
				return fmt.Errorf("roster %s: %w", file, err)
			}

			ownerID := resolveOwner(cmd, owner, f.Owner)
			genLogger := slog.New(slog.DiscardHandler)
			if verbose {
				genLogger = logger
			}

			start := time.Now()
			res := teams.New(teams.WithOwner(ownerID), teams.WithLogger(genLogger)).Generate(f.Players)
			logger.Debug("Generation finished", "duration", time.Since(start).Round(time.Millisecond))

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Roster file with exactly 10 players")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner player id (default: file owner, then OWNER_PLAYER_ID)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log stage progress")
	return cmd
}

// resolveOwner picks the --owner flag when set, then the roster file's
// owner, then the configured default.
func resolveOwner(cmd *cobra.Command, flag, fromFile string) string {
	if cmd.Flags().Changed("owner") {
		return flag
	}
	if fromFile != "" {
		return fromFile
	}
	if cfg, err := config.Load(); err == nil {
		return cfg.OwnerPlayerID
	}
	return config.DefaultOwnerPlayerID
}

func printResult(w io.Writer, res *teams.Result) {
	fmt.Fprintln(w, res.Primary.Explanation)
	if res.Secondary == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "---- Alternative ----")
	fmt.Fprintln(w, res.SecondaryReason)
	fmt.Fprintln(w)
	fmt.Fprintln(w, res.Secondary.Explanation)
	if c := res.Comparison; c != nil {
		fmt.Fprintf(w, "\n%s (score %+.2f, rating gap %+d, social %+d)\n",
			c.Reason, c.ScoreDelta, c.RatingDiffDelta, c.SocialDelta)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --------------------------------------------------------------------------
// roster commands
// --------------------------------------------------------------------------

func importCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upsert players from a roster file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			f, err := roster.LoadFile(file)
			if err != nil {
				return err
			}
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				return importPlayers(ctx, cfg, pool, f.Players, 0, "file", file)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Roster file (yaml, json or csv)")
	return cmd
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Pull the roster from the spreadsheet into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if cfg.AppsScriptURL == "" {
					return fmt.Errorf("APPS_SCRIPT_URL is required")
				}
				client := sheets.NewClient(cfg.AppsScriptURL, cfg.SheetRequestsPerMinute, cfg.SheetTimeout, logger)
				players, skipped, err := client.FetchPlayers(ctx)
				if err != nil {
					return fmt.Errorf("fetch sheet: %w", err)
				}
				return importPlayers(ctx, cfg, pool, players, skipped, "source", "sheet")
			})
		},
	}
}

// importPlayers upserts players and requeues matches that include them.
func importPlayers(ctx context.Context, cfg *config.Config, pool *db.Pool, players []teams.Player, skipped int, attrs ...any) error {
	start := time.Now()
	result := store.NewPlayers(pool).ImportPlayers(ctx, players)
	result.PlayersSkipped += skipped
	maintenance.AfterImport(ctx, match.NewStore(pool), players, cfg.RequeueWindow, &result, logger)

	logger.Info("Import finished", append(attrs,
		"duration", time.Since(start).Round(time.Millisecond),
		"summary", result.Summary())...)
	for _, e := range result.Errors {
		logger.Error("import error", "error", e)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("import finished with %d errors", len(result.Errors))
	}
	return nil
}

func exportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored roster as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				players, err := store.NewPlayers(pool).List(ctx)
				if err != nil {
					return err
				}
				if file == "" {
					return roster.WriteCSV(cmd.OutOrStdout(), players)
				}
				out, err := os.Create(file)
				if err != nil {
					return fmt.Errorf("create %s: %w", file, err)
				}
				if err := roster.WriteCSV(out, players); err != nil {
					out.Close()
					return err
				}
				logger.Info("Export finished", "file", file, "players", len(players))
				return out.Close()
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file (default stdout)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				logger.Info("Schema applied")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// matches command
// --------------------------------------------------------------------------

func matchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Generate teams for stored match-day selections",
	}
	cmd.AddCommand(matchesProcessCmd())
	cmd.AddCommand(matchesGenerateCmd())
	return cmd
}

func matchesProcessCmd() *cobra.Command {
	var opts match.Options
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Generate teams for all pending matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if !cmd.Flags().Changed("workers") {
					opts.Workers = cfg.MatchWorkers
				}
				if !cmd.Flags().Changed("max-attempts") {
					opts.MaxAttempts = cfg.MatchMaxAttempts
				}
				start := time.Now()
				result := newProcessor(pool).ProcessPending(ctx, opts)
				logger.Info("Matches process finished",
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("match error", "error", e)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&opts.MaxMatches, "max", 50, "Maximum matches to process")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "Concurrent worker count")
	cmd.Flags().IntVar(&opts.MaxAttempts, "max-attempts", 3, "Skip matches with this many failed attempts")
	return cmd
}

func matchesGenerateCmd() *cobra.Command {
	var (
		matchID int64
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate teams for a single match by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			if matchID <= 0 {
				return fmt.Errorf("--id is required")
			}
			return runDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				outcome, err := newProcessor(pool).ProcessByID(ctx, matchID)
				if err != nil {
					return fmt.Errorf("match %d: %w", matchID, err)
				}
				logger.Info("Match generate finished", "summary", outcome.Summary())
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), outcome.Result)
				}
				printResult(cmd.OutOrStdout(), outcome.Result)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&matchID, "id", 0, "Match ID to generate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

func newProcessor(pool *db.Pool) *match.Processor {
	return match.NewProcessor(match.NewStore(pool), store.NewPlayers(pool), nil, logger)
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runDB handles config loading, DB connection, schema and context
// cancellation.
func runDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Migrate(ctx); err != nil {
		return err
	}
	return fn(ctx, cfg, pool)
}
