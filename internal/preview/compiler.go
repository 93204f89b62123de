// Package preview compiles lesson text into rendered terminal output. The
// exercise tags are lowered to plain Markdown before a glamour renderer
// sees them, and compiles run asynchronously with last-write-wins results.
package preview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/glamour"

	"github.com/Mogikan/Interactivebook/internal/editor"
	"github.com/Mogikan/Interactivebook/internal/exercise"
)

// Compiler turns lesson text into displayable output.
type Compiler interface {
	Compile(ctx context.Context, text string) (string, error)
}

// Options configure a GlamourCompiler.
type Options struct {
	// Style is "auto", "dark", "light" or "notty".
	Style string
	// WordWrap is the wrap column; 0 disables wrapping.
	WordWrap int
	// ShowHints marks correct answers in the rendition.
	ShowHints bool
}

// GlamourCompiler renders lessons with glamour.
type GlamourCompiler struct {
	mu        sync.Mutex // guards renderer
	renderer  *glamour.TermRenderer
	showHints atomic.Bool
}

// NewGlamourCompiler builds a renderer for opts.
func NewGlamourCompiler(opts Options) (*GlamourCompiler, error) {
	style := glamour.WithAutoStyle()
	switch opts.Style {
	case "", "auto":
	case "dark", "light", "notty":
		style = glamour.WithStandardStyle(opts.Style)
	default:
		return nil, fmt.Errorf("unknown preview style %q", opts.Style)
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(opts.WordWrap))
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	g := &GlamourCompiler{renderer: r}
	g.showHints.Store(opts.ShowHints)
	return g, nil
}

// SetShowHints switches answer marking for later compiles.
func (g *GlamourCompiler) SetShowHints(show bool) {
	g.showHints.Store(show)
}

// Compile renders text. The context is checked before and after the
// render, which itself cannot be interrupted.
func (g *GlamourCompiler) Compile(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	md := exercise.Render(Prepare(text), g.showHints.Load())
	g.mu.Lock()
	out, err := g.renderer.Render(md)
	g.mu.Unlock()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// Prepare returns the compiler's working copy of text: ids stripped,
// exercises numbered with data-index and their bodies normalized. The
// edited text itself is never changed.
func Prepare(text string) string {
	return exercise.NormalizeForCompile(exercise.InjectIndexes(editor.StripIDs(text)))
}
