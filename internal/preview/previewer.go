package preview

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Result is the outcome of one compile.
type Result struct {
	Generation uint64
	Output     string
	Err        error
	Duration   time.Duration
}

// Previewer runs compiles in the background. Each request supersedes the
// previous one: its context is cancelled and its result is dropped, so the
// callback only ever sees the newest generation.
type Previewer struct {
	compiler Compiler

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewPreviewer wraps a compiler.
func NewPreviewer(c Compiler) *Previewer {
	return &Previewer{compiler: c}
}

// Generation returns the number of the latest request.
func (p *Previewer) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

// Request starts compiling text and returns its generation. deliver is
// called from the compile goroutine, and only if no newer request was made
// in the meantime.
func (p *Previewer) Request(ctx context.Context, text string, deliver func(Result)) uint64 {
	gen, _ := p.start(ctx, text, deliver)
	return gen
}

func (p *Previewer) start(ctx context.Context, text string, deliver func(Result)) (uint64, <-chan struct{}) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.generation++
	gen := p.generation
	cctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	done := make(chan struct{})
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(done)
		defer cancel()

		start := time.Now()
		out, err := p.compiler.Compile(cctx, text)
		res := Result{Generation: gen, Output: out, Err: err, Duration: time.Since(start)}

		p.mu.Lock()
		current := gen == p.generation
		p.mu.Unlock()
		if !current {
			log.Debug().Uint64("generation", gen).Msg("stale preview dropped")
			return
		}
		if err != nil {
			log.Debug().Err(err).Uint64("generation", gen).Msg("preview compile failed")
		}
		deliver(res)
	}()
	return gen, done
}

// Compile compiles text synchronously through the same generation gate. It
// reports ok=false when a newer request superseded this one.
func (p *Previewer) Compile(ctx context.Context, text string) (Result, bool) {
	var res Result
	delivered := false
	_, done := p.start(ctx, text, func(r Result) {
		res = r
		delivered = true
	})
	<-done
	return res, delivered
}

// Wait blocks until every started compile has finished.
func (p *Previewer) Wait() {
	p.wg.Wait()
}

// Stop cancels the running compile.
func (p *Previewer) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.generation++
	p.mu.Unlock()
	p.wg.Wait()
}
