package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mogikan/Interactivebook/internal/course"
	"github.com/Mogikan/Interactivebook/internal/editor"
	"github.com/Mogikan/Interactivebook/internal/exercise"
	"github.com/Mogikan/Interactivebook/internal/markup"
	"github.com/Mogikan/Interactivebook/internal/preview"
)

// ═══════════════════════════════════════════════════════════════════════════════
// EXTRACT COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

// record is the JSON form of an extracted exercise.
type record struct {
	Index       int           `json:"index"`
	Kind        exercise.Kind `json:"kind"`
	ID          string        `json:"id,omitempty"`
	Start       int           `json:"start"`
	End         int           `json:"end"`
	SelfClosing bool          `json:"self_closing"`
	Props       markup.Props  `json:"props"`
	Children    string        `json:"children,omitempty"`
	Raw         string        `json:"raw,omitempty"`
}

func extractCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "List the exercises of a lesson as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readLesson(args[0])
			if err != nil {
				return err
			}
			return writeRecords(cmd.OutOrStdout(), exercise.Extract(text), raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "include the raw markup of each exercise")
	return cmd
}

func writeRecords(w io.Writer, comps []exercise.Component, raw bool) error {
	out := make([]record, len(comps))
	for i, c := range comps {
		out[i] = record{
			Index:       i,
			Kind:        c.Type,
			Start:       c.Start,
			End:         c.End,
			SelfClosing: c.SelfClosing,
			Props:       c.Props,
			Children:    c.Children,
		}
		if id, ok := editor.IDOf(c); ok {
			out[i].ID = id
		}
		if raw {
			out[i].Raw = c.Raw
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ═══════════════════════════════════════════════════════════════════════════════
// FMT COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func fmtCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite every exercise of a lesson in canonical form",
		Long: `Regenerate every exercise of a lesson with the canonical attribute order,
default omission and body indentation. Text outside exercises is kept
byte for byte. Prints the result unless -w is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readLesson(args[0])
			if err != nil {
				return err
			}
			out, n, err := formatLesson(text)
			if err != nil {
				return err
			}
			if !write {
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			if out == text {
				fmt.Printf("%s already formatted\n", args[0])
				return nil
			}
			if _, err := editor.SaveFile(args[0], out); err != nil {
				return err
			}
			fmt.Printf("✅ Formatted %d exercises in %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the file")
	return cmd
}

// formatLesson regenerates every top-level exercise of text through an edit
// session and returns the result and the number of exercises.
func formatLesson(text string) (string, int, error) {
	s := editor.NewSession(text)
	recs := s.ExtractAll().Records
	for i := len(recs) - 1; i >= 0; i-- {
		if err := s.ReplaceAt(recs[i], i); err != nil {
			return "", 0, err
		}
	}
	return s.Text(), len(recs), nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// PREVIEW COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func previewCmd() *cobra.Command {
	var (
		watch    bool
		hints    bool
		emitMDX  bool
		showTime bool
	)

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Render a lesson to the terminal",
		Long: `Render a lesson the way the editor preview does. --emit-mdx prints the
pre-processed markup handed to the compiler instead (ids stripped, exercise
indexes injected, exercise bodies normalized). --watch re-renders whenever
the file changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			out := cmd.OutOrStdout()

			if emitMDX {
				text, err := readLesson(path)
				if err != nil {
					return err
				}
				fmt.Fprint(out, preview.Prepare(text))
				return nil
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			compiler, err := newCompiler(cfg, hints)
			if err != nil {
				return err
			}
			p := preview.NewPreviewer(compiler)
			defer p.Stop()

			render := func() {
				text, err := readLesson(path)
				if err != nil {
					log.Error("%v", err)
					return
				}
				res, ok := p.Compile(ctx, text)
				if !ok {
					return
				}
				if res.Err != nil {
					log.Error("Preview failed: %v", res.Err)
					return
				}
				fmt.Fprint(out, res.Output)
				if showTime {
					fmt.Fprintf(out, "\n(rendered in %v)\n", res.Duration)
				}
			}

			render()
			if !watch {
				return nil
			}

			fmt.Fprintf(out, "\nWatching %s, press Ctrl+C to stop...\n", path)
			return preview.Watch(ctx, path, preview.DefaultDebounce, func() {
				fmt.Fprintf(out, "\n─── %s changed ───\n\n", filepath.Base(path))
				render()
			})
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "re-render on every change")
	cmd.Flags().BoolVar(&hints, "hints", false, "mark correct answers")
	cmd.Flags().BoolVar(&emitMDX, "emit-mdx", false, "print the compiler input instead of rendering")
	cmd.Flags().BoolVar(&showTime, "time", false, "print the render duration")
	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// NEW COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func newCmd() *cobra.Command {
	var form bool

	cmd := &cobra.Command{
		Use:   "new <kind>",
		Short: "Print the template of a new exercise",
		Long: fmt.Sprintf(`Print the default markup of a new exercise. --form prints the editable
YAML form instead.

Kinds: %s`, kindList()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := exercise.ParseKind(args[0])
			if err != nil {
				return fmt.Errorf("%w (kinds: %s)", err, kindList())
			}
			e, err := exercise.Template(k)
			if err != nil {
				return err
			}

			var out string
			if form {
				out, err = exercise.MarshalForm(e)
			} else {
				out, err = exercise.GenerateExercise(e)
				out += "\n"
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&form, "form", false, "print the YAML form")
	return cmd
}

func kindList() string {
	names := make([]string, len(exercise.Kinds))
	for i, k := range exercise.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// ═══════════════════════════════════════════════════════════════════════════════
// CHECK COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func checkCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "check <file> <index> <answer>...",
		Short: "Grade an answer to an exercise and record the result",
		Long: `Grade an answer to the exercise at index (0-based, as listed by extract).

Answers by kind:
  Quiz                      option numbers: 1 3  (or 1,3)
  FillBlanks, InlineBlanks  one value per blank, in order
  Ordering                  the items in the chosen order
  Matching                  left=right pairs
  Grouping                  item=group pairs`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("bad exercise index %q", args[1])
			}

			text, err := readLesson(path)
			if err != nil {
				return err
			}
			_, body, err := course.SplitFrontMatter(text)
			if err != nil {
				return err
			}

			comps := exercise.Extract(body)
			if index < 0 || index >= len(comps) {
				return fmt.Errorf("exercise %d not found (%d exercises)", index, len(comps))
			}
			e, err := exercise.Decode(comps[index])
			if err != nil {
				return err
			}
			res, err := grade(e, args[2:])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Correct {
				fmt.Fprintf(out, "✅ Correct (%d/%d)\n", res.Score(), len(res.Marks))
			} else {
				fmt.Fprintf(out, "❌ Not quite (%d/%d)\n", res.Score(), len(res.Marks))
			}

			if !save {
				return nil
			}
			return recordResult(cmd.Context(), path, index, e.Kind(), res)
		},
	}

	cmd.Flags().BoolVar(&save, "record", true, "store the result in the progress table")
	return cmd
}

func recordResult(ctx context.Context, path string, index int, kind exercise.Kind, res exercise.Result) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, cleanup, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	lesson, err := lessonKey(path)
	if err != nil {
		return err
	}
	p, err := store.RecordResult(ctx, lesson, index, string(kind), res.Correct, res.Score())
	if err != nil {
		return err
	}
	log.Debug("Recorded %s %d of %s (attempt %d)", kind, index, lesson, p.Attempts)
	fmt.Printf("Attempt %d recorded\n", p.Attempts)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ═══════════════════════════════════════════════════════════════════════════════

// readLesson reads a lesson file, or stdin for "-".
func readLesson(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return editor.LoadFile(path)
}

// lessonKey is the progress key of a lesson file: its absolute path, which
// is also what the reader resolves course routes to.
func lessonKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
