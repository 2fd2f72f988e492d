package live

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"kuralhub/internal/browse"
	"kuralhub/internal/catalog"
	"kuralhub/internal/web"
)

const writeWait = 5 * time.Second

// Session is one browser's live browse state. Events are read sequentially
// by Run; search input is debounced, everything else applies immediately.
type Session struct {
	conn     *websocket.Conn
	state    *browse.State
	renderer *web.Renderer
	logger   *zap.Logger

	mu     sync.Mutex // guards filter, typed, gen and writes to conn
	filter catalog.Filter
	typed  string
	// gen advances on every event; a debounced search only applies if no
	// event arrived after it was scheduled
	gen      uint64
	debounce *browse.Debouncer[pendingSearch]
}

type pendingSearch struct {
	raw string
	gen uint64
}

func NewSession(conn *websocket.Conn, state *browse.State, renderer *web.Renderer, initial catalog.Filter, delay time.Duration, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		conn:     conn,
		state:    state,
		renderer: renderer,
		logger:   logger,
		filter:   initial,
		typed:    initial.Query,
	}
	s.debounce = browse.NewDebouncer(delay, s.applySearch)
	return s
}

// Filter returns the session's current filter.
func (s *Session) Filter() catalog.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Run reads events until the connection closes.
func (s *Session) Run() error {
	defer s.debounce.Stop()
	for {
		var ev Event
		if err := s.conn.ReadJSON(&ev); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}
			return err
		}
		s.Handle(ev)
	}
}

// Handle applies one client event.
func (s *Session) Handle(ev Event) {
	if ev.Type == EventSearch {
		s.mu.Lock()
		s.typed = ev.Value
		s.gen++
		pending := pendingSearch{raw: ev.Value, gen: s.gen}
		s.mu.Unlock()
		s.debounce.Trigger(pending)
		return
	}

	switch ev.Type {
	case EventClearSearch, EventDivision, EventSection, EventChapter, EventClear:
	default:
		s.logger.Debug("unknown live event", zap.String("type", ev.Type))
		return
	}

	// any other event supersedes a pending search; the latest typed
	// query goes out with it
	s.debounce.Cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(ev)
}

func (s *Session) applyLocked(ev Event) {
	f := browse.WithQuery(s.filter, s.typed)
	switch ev.Type {
	case EventClearSearch:
		s.typed = ""
		f = browse.WithQuery(f, "")
	case EventDivision:
		f = browse.SelectDivision(f, ev.Value)
	case EventSection:
		f = browse.SelectSection(f, ev.Value)
	case EventChapter:
		f = browse.SelectChapter(f, ev.Value)
	case EventClear:
		s.typed = ""
		f = browse.Clear(f)
	default:
		s.logger.Debug("unknown live event", zap.String("type", ev.Type))
		return
	}
	s.gen++
	s.filter = f
	s.pushLocked()
}

// Refresh re-renders the current filter.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushLocked()
}

func (s *Session) Close() {
	s.debounce.Stop()
	_ = s.conn.Close()
}

func (s *Session) applySearch(p pendingSearch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.gen != s.gen {
		// timer fired while a later event held the lock
		return
	}
	s.filter = browse.WithQuery(s.filter, p.raw)
	s.pushLocked()
}

func (s *Session) pushLocked() {
	res, err := s.state.Apply(s.filter)
	if err != nil {
		s.writeLocked(ErrorMessage{Type: "error", Error: err.Error(), Status: string(s.state.Status())})
		return
	}
	html, err := s.renderer.Results(res)
	if err != nil {
		s.logger.Error("render live results", zap.Error(err))
		s.writeLocked(ErrorMessage{Type: "error", Error: "render failed"})
		return
	}
	s.writeLocked(ResultsMessage{
		Type:     "results",
		HTML:     html,
		Kurals:   res.Kurals,
		Chapters: res.Chapters,
		Options:  res.Options,
		Filter:   res.Filter,
	})
}

func (s *Session) writeLocked(v any) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(v); err != nil {
		s.logger.Debug("live write failed", zap.Error(err))
	}
}
