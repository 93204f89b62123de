package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/Mogikan/Interactivebook/internal/config"
	"github.com/Mogikan/Interactivebook/internal/course"
	"github.com/Mogikan/Interactivebook/internal/data"
	"github.com/Mogikan/Interactivebook/internal/editor"
	"github.com/Mogikan/Interactivebook/internal/logging"
	"github.com/Mogikan/Interactivebook/internal/preview"
	"github.com/Mogikan/Interactivebook/internal/ui"
)

// draftFlushTimeout bounds the final draft save after the TUI exits.
const draftFlushTimeout = 2 * time.Second

// ═══════════════════════════════════════════════════════════════════════════════
// EDIT COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a lesson in the terminal editor",
		Long: `Open the exercise editor. With a file, the lesson is loaded from disk and
ctrl+s writes it back; external changes reload the buffer when it has no
unsaved edits. Without a file, the autosaved draft is restored.

Keys:
  tab      switch between text and exercise list
  ctrl+n   insert an exercise template
  enter    edit the selected exercise as a YAML form (ctrl+s applies)
  x        delete the selected exercise
  ctrl+t   toggle answer hints in the preview
  ctrl+q   quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runEdit(cmd.Context(), path)
		},
	}
}

func runEdit(ctx context.Context, path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, cleanup, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	showHints, err := store.ShowHints(ctx, cfg.TUI.ShowHints)
	if err != nil {
		log.Warn("Failed to read hints setting: %v", err)
	}

	var text, saved string
	watch := path != ""
	if path != "" {
		text, err = editor.LoadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Info("New lesson %s", path)
			text = ""
		case err != nil:
			return err
		}
		saved = text
	} else {
		text, err = store.LoadDraft(ctx)
		if err != nil && !errors.Is(err, data.ErrNotFound) {
			return fmt.Errorf("failed to restore draft: %w", err)
		}
		path = cfg.Editor.DefaultFile
		log.Debug("Restored draft (%d bytes)", len(text))
	}

	compiler, err := newCompiler(cfg, showHints)
	if err != nil {
		return err
	}

	var changes chan struct{}
	if watch {
		changes = make(chan struct{}, 1)
		go func() {
			err := preview.Watch(ctx, path, preview.DefaultDebounce, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
			if err != nil {
				log.Warn("External change detection disabled: %v", err)
			}
		}()
	}

	model := ui.NewEditor(ui.EditorConfig{
		Context:      ctx,
		Path:         path,
		Text:         text,
		Saved:        saved,
		Store:        store,
		Compiler:     compiler,
		IDMode:       cfg.Editor.IDMode,
		Autosave:     cfg.Editor.Autosave,
		ShowHints:    showHints,
		Theme:        ui.GetTheme(cfg.TUI.Theme),
		SidebarWidth: cfg.TUI.SidebarWidth,
		Changes:      changes,
	})

	runErr := runProgram(ctx, model)

	if cfg.Editor.Autosave {
		flushCtx, cancel := logging.DetachContextWithTimeout(ctx, draftFlushTimeout)
		defer cancel()
		if _, err := store.SaveDraft(flushCtx, model.Session().Text()); err != nil {
			log.Warn("Failed to save draft: %v", err)
		}
	}
	return runErr
}

// ═══════════════════════════════════════════════════════════════════════════════
// READ COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func readCmd() *cobra.Command {
	var courseFile string

	cmd := &cobra.Command{
		Use:   "read [lesson]",
		Short: "Read the course in the terminal reader",
		Long: `Browse the lessons of the course described by course.yaml. The optional
argument is a lesson route such as /intro/greetings.

Keys: n/p next and previous lesson, / find a lesson, ctrl+t toggle hints.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := loadCourse(cfg, courseFile)
			if err != nil {
				return err
			}

			start := 0
			if len(args) == 1 {
				start, _, err = c.Lookup(args[0])
				if err != nil {
					return err
				}
			}

			store, cleanup, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			showHints, err := store.ShowHints(ctx, cfg.TUI.ShowHints)
			if err != nil {
				log.Warn("Failed to read hints setting: %v", err)
			}
			compiler, err := newCompiler(cfg, showHints)
			if err != nil {
				return err
			}

			model := ui.NewReader(ui.ReaderConfig{
				Context:      ctx,
				Course:       c,
				Start:        start,
				Compiler:     compiler,
				Store:        store,
				ShowHints:    showHints,
				Theme:        ui.GetTheme(cfg.TUI.Theme),
				SidebarWidth: cfg.TUI.SidebarWidth,
			})
			return runProgram(ctx, model)
		},
	}

	cmd.Flags().StringVar(&courseFile, "course", "", "course file (default from config)")
	return cmd
}

// loadCourse loads the course with an absolute content root, so lesson
// files resolve the same way for every command.
func loadCourse(cfg *config.Config, override string) (*course.Course, error) {
	file, root := cfg.Course.File, cfg.Course.ContentRoot
	if override != "" {
		file, root = override, filepath.Dir(override)
	}
	if root == "" {
		root = filepath.Dir(file)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve content root: %w", err)
	}

	c, err := course.Load(file, abs)
	if err != nil {
		return nil, err
	}
	log.Debug("Course %q loaded from %s (%d lessons)", c.Title, file, len(c.Lessons()))
	return c, nil
}

// runProgram hands the terminal to a Bubble Tea model. Console logging is
// silenced and zerolog goes to the session file only while it runs.
func runProgram(ctx context.Context, model tea.Model) error {
	lipgloss.SetColorProfile(termenv.TrueColor)

	logging.DisableConsoleOutput()
	defer logging.EnableConsoleOutput()
	logging.ConfigureZerolog(logFileWriter(), logLevel)

	log.Info("Starting interactive TUI...")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Error("TUI failed: %v", err)
		return fmt.Errorf("tui: %w", err)
	}
	log.Info("TUI exited")
	return nil
}
