package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mogikan/Interactivebook/internal/data"
	"github.com/Mogikan/Interactivebook/internal/editor"
)

// ═══════════════════════════════════════════════════════════════════════════════
// PROGRESS COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func progressCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "progress <file>",
		Short: "Show the graded exercises of a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			lesson, err := lessonKey(args[0])
			if err != nil {
				return err
			}

			if reset {
				if err := store.ResetProgress(ctx, lesson); err != nil {
					return err
				}
				fmt.Printf("✅ Progress of %s reset\n", args[0])
				return nil
			}

			all, err := store.Progress(ctx, lesson)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Println("No graded exercises.")
				return nil
			}
			for _, p := range all {
				mark := "❌"
				if p.Correct {
					mark = "✅"
				}
				fmt.Printf("  %s %2d %-16s score %d, %d attempts, %s\n",
					mark, p.Index, p.Kind, p.Score, p.Attempts, formatTime(p.UpdatedAt))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "forget all results of the lesson")
	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// DRAFT COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func draftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage the autosaved editor draft",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *data.Store) error {
				text, err := store.LoadDraft(cmd.Context())
				if errors.Is(err, data.ErrNotFound) {
					fmt.Println("No draft saved.")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Print(editor.StripIDs(text))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "save <file>",
		Short: "Replace the draft with a lesson file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := editor.LoadFile(args[0])
			if err != nil {
				return err
			}
			return withStore(func(store *data.Store) error {
				changed, err := store.SaveDraft(cmd.Context(), text)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Println("Draft already up to date.")
					return nil
				}
				fmt.Printf("✅ Draft saved from %s (%d bytes)\n", args[0], len(text))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write the draft to a lesson file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *data.Store) error {
				text, err := store.LoadDraft(cmd.Context())
				if err != nil {
					return fmt.Errorf("load draft: %w", err)
				}
				path, err := editor.SaveFile(args[0], text)
				if err != nil {
					return err
				}
				fmt.Printf("✅ Draft written to %s\n", path)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete the draft and its history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *data.Store) error {
				if err := store.ClearDraft(cmd.Context()); err != nil {
					return err
				}
				fmt.Println("✅ Draft cleared")
				return nil
			})
		},
	})

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List saved draft revisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *data.Store) error {
				revs, err := store.Revisions(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(revs) == 0 {
					fmt.Println("No revisions.")
					return nil
				}
				for _, r := range revs {
					first := strings.SplitN(strings.TrimSpace(r.Content), "\n", 2)[0]
					fmt.Printf("  #%-4d %s  %6d bytes  %s\n", r.ID, formatTime(r.CreatedAt), r.Bytes, truncate(first, 50))
				}
				return nil
			})
		},
	}
	history.Flags().IntVarP(&limit, "limit", "n", 10, "number of revisions to list")
	cmd.AddCommand(history)

	return cmd
}

func withStore(fn func(*data.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, cleanup, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(store)
}

// ═══════════════════════════════════════════════════════════════════════════════
// COURSE COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func courseCmd() *cobra.Command {
	var courseFile string

	cmd := &cobra.Command{
		Use:   "course",
		Short: "Inspect the course structure",
	}
	cmd.PersistentFlags().StringVar(&courseFile, "course", "", "course file (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the lessons in reading order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := loadCourse(cfg, courseFile)
			if err != nil {
				return err
			}

			fmt.Println(c.Title)
			fmt.Println(strings.Repeat("─", len([]rune(c.Title))))
			section := ""
			for i, l := range c.Lessons() {
				if l.Section != section {
					section = l.Section
					fmt.Printf("\n%s\n", section)
				}
				missing := ""
				if _, err := os.Stat(c.File(l.Route)); err != nil {
					missing = "  (missing)"
				}
				fmt.Printf("  %2d. %-30s %s%s\n", i+1, l.Title, l.Route, missing)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-find lessons by title, section or route",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := loadCourse(cfg, courseFile)
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			matches := c.Find(query)
			if len(matches) == 0 {
				fmt.Printf("No lessons match: %s\n", query)
				return nil
			}
			for _, m := range matches {
				fmt.Printf("  %-30s %s\n", m.Lesson.Title, m.Lesson.Route)
			}
			return nil
		},
	})

	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// CONFIG COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Interactivebook Configuration:")
			fmt.Println("──────────────────────────────")
			fmt.Print(readConfig().String())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(getConfigPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			fmt.Printf("✅ %s is valid\n", getConfigPath())
			return nil
		},
	})

	return cmd
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
