package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/antbot-go/internal/adapters/journal"
	"github.com/andrescamacho/antbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/database"
)

// NewJournalCommand creates the journal command with subcommands
func NewJournalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect recorded turns",
		Long: `Inspect the turn journal: sessions and turns from the journal database,
or the entries of a compressed journal file.

Examples:
  antbot journal sessions
  antbot journal turns simulate-seed42-a3f8e2b1 --limit 20
  antbot journal tags simulate-seed42-a3f8e2b1
  antbot journal show --file journal.jsonl.zst --session simulate-seed42-a3f8e2b1`,
	}

	cmd.AddCommand(newJournalSessionsCommand())
	cmd.AddCommand(newJournalTurnsCommand())
	cmd.AddCommand(newJournalTagsCommand())
	cmd.AddCommand(newJournalShowCommand())

	return cmd
}

// withRepository opens the journal database for a read-only command
func withRepository(fn func(ctx context.Context, repo *persistence.GormTurnJournalRepository) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return fn(ctx, persistence.NewGormTurnJournalRepository(db, ""))
}

func newJournalSessionsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(ctx context.Context, repo *persistence.GormTurnJournalRepository) error {
				sessions, err := repo.ListSessions(ctx, limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(sessions)
				}
				if len(sessions) == 0 {
					fmt.Println("No sessions recorded")
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "Session\tMode\tStarted\tTurns\tLast Turn")
				fmt.Fprintln(w, "───────\t────\t───────\t─────\t─────────")
				for _, s := range sessions {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
						s.ID, s.Mode, s.StartedAt.Format("2006-01-02 15:04:05"), s.Turns, s.LastTurn)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum sessions to list")
	return cmd
}

func newJournalTurnsCommand() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "turns <session-id>",
		Short: "List the turns of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(ctx context.Context, repo *persistence.GormTurnJournalRepository) error {
				entries, err := repo.ListTurns(ctx, args[0], limit, offset)
				if err != nil {
					return err
				}
				return printEntries(entries)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum turns to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Turns to skip")
	return cmd
}

func newJournalTagsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <session-id>",
		Short: "Count a session's commands by task tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(ctx context.Context, repo *persistence.GormTurnJournalRepository) error {
				counts, err := repo.CountCommandsByTag(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(counts)
				}

				tags := make([]string, 0, len(counts))
				for tag := range counts {
					tags = append(tags, tag)
				}
				sort.Strings(tags)

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "Tag\tCommands")
				fmt.Fprintln(w, "───\t────────")
				for _, tag := range tags {
					fmt.Fprintf(w, "%s\t%d\n", tag, counts[tag])
				}
				return w.Flush()
			})
		},
	}
}

func newJournalShowCommand() *cobra.Command {
	var (
		file    string
		session string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the entries of a compressed journal file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				file = cfg.Journal.FilePath
			}
			if file == "" {
				return fmt.Errorf("no journal file: pass --file or set journal.file_path")
			}

			entries, err := journal.ReadEntries(file, session)
			if err != nil {
				return err
			}
			return printEntries(entries)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Journal file (default: journal.file_path)")
	cmd.Flags().StringVar(&session, "session", "", "Only this session")
	return cmd
}

func printEntries(entries []*common.JournalEntry) error {
	if jsonOutput {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println("No turns recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Session\tTurn\tCommands\tSkipped\tDropped\tReservations\tDuration\tDegraded")
	fmt.Fprintln(w, "───────\t────\t────────\t───────\t───────\t────────────\t────────\t────────")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%s\t%v\n",
			e.SessionID, e.Turn, len(e.Commands), len(e.Skipped), len(e.Dropped),
			len(e.Reservations), e.Duration.Round(time.Microsecond), e.Degraded)
	}
	return w.Flush()
}
