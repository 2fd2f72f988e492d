package live

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kuralhub/internal/browse"
	"kuralhub/internal/catalog"
	"kuralhub/internal/web"
	"kuralhub/pkg/models"
)

var sample = []models.Kural{
	{Number: "1", Division: "A", Section: "X", Chapter: "C1", Text: "love is good"},
	{Number: "2", Division: "A", Section: "X", Chapter: "C1", Text: "wealth grows"},
	{Number: "3", Division: "B", Section: "Y", Chapter: "C2", Text: "love conquers"},
}

type failingSource struct{}

func (failingSource) Name() string { return "broken" }

func (failingSource) Load(context.Context) ([]models.Kural, error) {
	return nil, errors.New("unreachable")
}

type rowsSource struct{ rows []models.Kural }

func (rowsSource) Name() string { return "rows" }

func (s rowsSource) Load(context.Context) ([]models.Kural, error) { return s.rows, nil }

type liveServer struct {
	hub   *Hub
	state *browse.State
	url   string
}

func startServer(t *testing.T, state *browse.State, delay time.Duration) *liveServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	hub := NewHub()
	h := &Handler{Hub: hub, State: state, Renderer: renderer, Debounce: delay, Logger: zap.NewNop()}
	r := gin.New()
	h.Register(r, "/ws", nil)

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.CloseAll()
		srv.Close()
	})
	return &liveServer{hub: hub, state: state, url: "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"}
}

func readyState() *browse.State {
	st := browse.NewState(zap.NewNop())
	st.SetRows("test", sample)
	return st
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readResults(t *testing.T, conn *websocket.Conn) ResultsMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ResultsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "results", msg.Type)
	return msg
}

func expectSilence(t *testing.T, conn *websocket.Conn, d time.Duration) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(d)))
	_, data, err := conn.ReadMessage()
	assert.Error(t, err, "unexpected message: %s", data)
}

func TestSearchIsDebounced(t *testing.T) {
	srv := startServer(t, readyState(), 50*time.Millisecond)
	conn := dial(t, srv.url)

	for _, v := range []string{"l", "lo", "lov", "LOVE "} {
		require.NoError(t, conn.WriteJSON(Event{Type: EventSearch, Value: v}))
	}

	msg := readResults(t, conn)
	assert.Equal(t, "love", msg.Filter.Query)
	assert.Equal(t, 2, msg.Kurals)
	assert.Equal(t, 2, msg.Chapters)
	assert.Contains(t, msg.HTML, `<span class="highlight">love</span>`)

	expectSilence(t, conn, 200*time.Millisecond)
}

func TestDropdownAppliesImmediately(t *testing.T) {
	srv := startServer(t, readyState(), time.Hour)
	conn := dial(t, srv.url)

	require.NoError(t, conn.WriteJSON(Event{Type: EventDivision, Value: "B"}))
	msg := readResults(t, conn)
	assert.Equal(t, catalog.Filter{Division: "B"}, msg.Filter)
	assert.Equal(t, 1, msg.Kurals)
	assert.Equal(t, []string{"Y"}, msg.Options.Sections)
	assert.Equal(t, []string{"C2"}, msg.Options.Chapters)

	require.NoError(t, conn.WriteJSON(Event{Type: EventSection, Value: "Y"}))
	msg = readResults(t, conn)
	assert.Equal(t, catalog.Filter{Division: "B", Section: "Y"}, msg.Filter)

	require.NoError(t, conn.WriteJSON(Event{Type: EventDivision, Value: "A"}))
	msg = readResults(t, conn)
	assert.Equal(t, catalog.Filter{Division: "A"}, msg.Filter, "changing division resets section")
	assert.Equal(t, 2, msg.Kurals)

	require.NoError(t, conn.WriteJSON(Event{Type: EventClear}))
	msg = readResults(t, conn)
	assert.Equal(t, catalog.Filter{}, msg.Filter)
	assert.Equal(t, 3, msg.Kurals)
}

func TestDropdownSupersedesPendingSearch(t *testing.T) {
	srv := startServer(t, readyState(), 150*time.Millisecond)
	conn := dial(t, srv.url)

	require.NoError(t, conn.WriteJSON(Event{Type: EventSearch, Value: "love"}))
	require.NoError(t, conn.WriteJSON(Event{Type: EventDivision, Value: "A"}))

	msg := readResults(t, conn)
	assert.Equal(t, catalog.Filter{Query: "love", Division: "A"}, msg.Filter)
	assert.Equal(t, 1, msg.Kurals)

	expectSilence(t, conn, 300*time.Millisecond)
}

func TestClearSearchKeepsDropdowns(t *testing.T) {
	srv := startServer(t, readyState(), 10*time.Millisecond)
	conn := dial(t, srv.url)

	require.NoError(t, conn.WriteJSON(Event{Type: EventDivision, Value: "A"}))
	readResults(t, conn)
	require.NoError(t, conn.WriteJSON(Event{Type: EventSearch, Value: "wealth"}))
	msg := readResults(t, conn)
	assert.Equal(t, 1, msg.Kurals)

	require.NoError(t, conn.WriteJSON(Event{Type: EventClearSearch}))
	msg = readResults(t, conn)
	assert.Equal(t, catalog.Filter{Division: "A"}, msg.Filter)
	assert.Equal(t, 2, msg.Kurals)
}

func TestInitialFilterFromQuery(t *testing.T) {
	srv := startServer(t, readyState(), time.Hour)
	conn := dial(t, srv.url+"?division=B&section=nope")

	require.NoError(t, conn.WriteJSON(Event{Type: EventChapter, Value: "C2"}))
	msg := readResults(t, conn)
	assert.Equal(t, catalog.Filter{Division: "B", Chapter: "C2"}, msg.Filter)
}

func TestNotReadySendsError(t *testing.T) {
	srv := startServer(t, browse.NewState(zap.NewNop()), time.Hour)
	conn := dial(t, srv.url)

	require.NoError(t, conn.WriteJSON(Event{Type: EventDivision, Value: "A"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ErrorMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, browse.ErrNotReady.Error(), msg.Error)
	assert.Equal(t, string(browse.StatusLoading), msg.Status)
}

func TestFailedLoadReachesLoadingSessions(t *testing.T) {
	state := browse.NewState(zap.NewNop())
	srv := startServer(t, state, time.Hour)
	conn := dial(t, srv.url)
	require.Eventually(t, func() bool { return srv.hub.Stats().Sessions == 1 }, 2*time.Second, 10*time.Millisecond)

	require.Error(t, srv.hub.Load(context.Background(), state, failingSource{}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ErrorMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, string(browse.StatusFailed), msg.Status)
}

func TestLoadPushesResultsToLoadingSessions(t *testing.T) {
	state := browse.NewState(zap.NewNop())
	srv := startServer(t, state, time.Hour)
	conn := dial(t, srv.url)
	require.Eventually(t, func() bool { return srv.hub.Stats().Sessions == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, srv.hub.Load(context.Background(), state, rowsSource{rows: sample}))
	msg := readResults(t, conn)
	assert.Equal(t, 3, msg.Kurals)
}

func TestLateSearchTimerDoesNotUndoClear(t *testing.T) {
	srv := startServer(t, readyState(), 50*time.Millisecond)
	conn := dial(t, srv.url)
	require.Eventually(t, func() bool { return srv.hub.Stats().Sessions == 1 }, 2*time.Second, 10*time.Millisecond)
	sess := srv.hub.snapshot()[0]

	sess.Handle(Event{Type: EventSearch, Value: "love"})

	// hold the session while the timer fires so its callback queues behind
	// the clear, the way a clear arriving at the same moment would
	sess.mu.Lock()
	time.Sleep(150 * time.Millisecond)
	sess.applyLocked(Event{Type: EventClear})
	sess.mu.Unlock()

	msg := readResults(t, conn)
	assert.Equal(t, catalog.Filter{}, msg.Filter)

	expectSilence(t, conn, 200*time.Millisecond)
	assert.Equal(t, catalog.Filter{}, sess.Filter())
}

func TestHubTracksAndRefreshesSessions(t *testing.T) {
	state := browse.NewState(zap.NewNop())
	srv := startServer(t, state, time.Hour)
	conn := dial(t, srv.url)

	assert.Eventually(t, func() bool { return srv.hub.Stats().Sessions == 1 }, 2*time.Second, 10*time.Millisecond)

	state.SetRows("test", sample)
	srv.hub.Refresh()
	msg := readResults(t, conn)
	assert.Equal(t, 3, msg.Kurals)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return srv.hub.Stats().Sessions == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestUnknownEventIgnored(t *testing.T) {
	srv := startServer(t, readyState(), time.Hour)
	conn := dial(t, srv.url)

	require.NoError(t, conn.WriteJSON(Event{Type: "bogus"}))
	expectSilence(t, conn, 100*time.Millisecond)
}

func TestUnknownEventKeepsPendingSearch(t *testing.T) {
	srv := startServer(t, readyState(), 50*time.Millisecond)
	conn := dial(t, srv.url)

	require.NoError(t, conn.WriteJSON(Event{Type: EventSearch, Value: "wealth"}))
	require.NoError(t, conn.WriteJSON(Event{Type: "bogus"}))

	msg := readResults(t, conn)
	assert.Equal(t, "wealth", msg.Filter.Query)
	assert.Equal(t, 1, msg.Kurals)
}
