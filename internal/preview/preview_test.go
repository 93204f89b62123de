package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingCompiler echoes its input once released, or fails on "boom".
type blockingCompiler struct {
	release map[string]chan struct{}
	mu      sync.Mutex
}

func (b *blockingCompiler) gate(text string) chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.release == nil {
		b.release = map[string]chan struct{}{}
	}
	ch, ok := b.release[text]
	if !ok {
		ch = make(chan struct{})
		b.release[text] = ch
	}
	return ch
}

func (b *blockingCompiler) Compile(ctx context.Context, text string) (string, error) {
	select {
	case <-b.gate(text):
	case <-ctx.Done():
	}
	if text == "boom" {
		return "", errors.New("compile failed")
	}
	return "out:" + text, nil
}

func TestPreviewer_LastWriteWins(t *testing.T) {
	c := &blockingCompiler{}
	p := NewPreviewer(c)

	var mu sync.Mutex
	var got []Result
	deliver := func(r Result) {
		mu.Lock()
		got = append(got, r)
		mu.Unlock()
	}

	g1 := p.Request(context.Background(), "first", deliver)
	g2 := p.Request(context.Background(), "second", deliver)
	assert.Equal(t, uint64(1), g1)
	assert.Equal(t, uint64(2), g2)

	close(c.gate("first"))
	close(c.gate("second"))
	p.Wait()

	require.Len(t, got, 1)
	assert.Equal(t, g2, got[0].Generation)
	assert.Equal(t, "out:second", got[0].Output)
	assert.NoError(t, got[0].Err)
}

func TestPreviewer_CompileError(t *testing.T) {
	c := &blockingCompiler{}
	close(c.gate("boom"))
	p := NewPreviewer(c)

	res, ok := p.Compile(context.Background(), "boom")
	require.True(t, ok)
	assert.EqualError(t, res.Err, "compile failed")
	assert.Empty(t, res.Output)
}

func TestPreviewer_Stop(t *testing.T) {
	c := &blockingCompiler{}
	p := NewPreviewer(c)

	called := false
	p.Request(context.Background(), "never released", func(Result) { called = true })
	p.Stop()
	assert.False(t, called, "a stopped compile is not delivered")
}

func TestGlamourCompiler(t *testing.T) {
	g, err := NewGlamourCompiler(Options{Style: "notty", WordWrap: 60, ShowHints: true})
	require.NoError(t, err)

	text := "# Lesson\n\n<Quiz uid=\"abc\" answer=\"2\">\n  Pick one\n  <Option>A</Option>\n  <Option>B</Option>\n</Quiz>\n"
	out, err := g.Compile(context.Background(), text)
	require.NoError(t, err)
	assert.Contains(t, out, "Lesson")
	assert.Contains(t, out, "Pick one")
	assert.NotContains(t, out, "<Quiz")
	assert.NotContains(t, out, "abc")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Compile(ctx, text)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewGlamourCompiler(Options{Style: "neon"})
	assert.Error(t, err)
}

func TestPrepare(t *testing.T) {
	text := "<Media uid=\"x\" src=\"a.mp3\" />\n<Quiz answer=\"1\">\n  Q\n\n  <Option>A</Option>\n</Quiz>"
	got := Prepare(text)
	assert.Equal(t, "<Media src=\"a.mp3\" data-index=\"0\" />\n<Quiz answer=\"1\" data-index=\"1\">Q <Option>A</Option></Quiz>", got)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.mdx")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, path, 20*time.Millisecond, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register, then write until it notices.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for seen := false; !seen; {
		select {
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("b", 2)), 0644))
		case <-changed:
			seen = true
		case <-deadline:
			t.Fatal("no change notification")
		}
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.mdx"), []byte("x"), 0644))
	cancel()
	assert.NoError(t, <-errc)
}
