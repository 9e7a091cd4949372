// Package barcode turns scanner input into product lookups.
package barcode

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source yields scanned codes. Next blocks until a code is available or ctx ends.
type Source interface {
	Next(ctx context.Context) (string, error)
}

// PushSource receives codes from outside: a handheld scanner acting as a
// keyboard, or the browser camera detector posting through the API.
type PushSource struct {
	codes chan string
}

func NewPushSource(buffer int) *PushSource {
	if buffer <= 0 {
		buffer = 8
	}
	return &PushSource{codes: make(chan string, buffer)}
}

// Push queues a code. It reports false when the buffer is full.
func (s *PushSource) Push(code string) bool {
	select {
	case s.codes <- code:
		return true
	default:
		return false
	}
}

func (s *PushSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case code := <-s.codes:
		return code, nil
	}
}

// StubSource cycles through a fixed list of codes at an interval. Used on
// counters with no camera and in demos.
type StubSource struct {
	codes    []string
	interval time.Duration

	mu     sync.Mutex
	i      int
	ticker *time.Ticker
}

func NewStubSource(codes []string, interval time.Duration) *StubSource {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &StubSource{codes: append([]string(nil), codes...), interval: interval}
}

func (s *StubSource) Next(ctx context.Context) (string, error) {
	if len(s.codes) == 0 {
		<-ctx.Done()
		return "", ctx.Err()
	}
	s.mu.Lock()
	if s.ticker == nil {
		s.ticker = time.NewTicker(s.interval)
	}
	ticker := s.ticker
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		s.Stop()
		return "", ctx.Err()
	case <-ticker.C:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.codes[s.i%len(s.codes)]
	s.i++
	return code, nil
}

// Stop releases the ticker. The next call to Next starts a new one.
func (s *StubSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// Handler receives each accepted code.
type Handler func(code string)

// DebounceWindow suppresses repeats of the same code held under the camera.
const DebounceWindow = 2 * time.Second

// Scanner reads a Source and forwards distinct codes to a Handler.
type Scanner struct {
	source  Source
	handle  Handler
	log     *zap.Logger
	now     func() time.Time
	lastHit string
	lastAt  time.Time
}

func NewScanner(source Source, handle Handler, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{source: source, handle: handle, log: log, now: time.Now}
}

// Run forwards codes until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	s.log.Info("scanner started")
	defer s.log.Info("scanner stopped")
	for {
		code, err := s.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.accept(code)
	}
}

func (s *Scanner) accept(code string) bool {
	if code == "" {
		return false
	}
	now := s.now()
	if code == s.lastHit && now.Sub(s.lastAt) < DebounceWindow {
		return false
	}
	s.lastHit, s.lastAt = code, now
	s.handle(code)
	return true
}

// Session runs one Scanner in the background and can be restarted.
type Session struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches scanner unless a session is already running.
func (ss *Session) Start(parent context.Context, scanner *Scanner) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.cancel != nil {
		return false
	}
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	ss.cancel, ss.done = cancel, done
	go func() {
		defer close(done)
		if err := scanner.Run(ctx); err != nil {
			scanner.log.Warn("scanner exited", zap.Error(err))
		}
	}()
	return true
}

// Stop cancels the running session and waits for it to exit.
func (ss *Session) Stop() bool {
	ss.mu.Lock()
	cancel, done := ss.cancel, ss.done
	ss.cancel, ss.done = nil, nil
	ss.mu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	<-done
	return true
}

func (ss *Session) Running() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.cancel != nil
}
