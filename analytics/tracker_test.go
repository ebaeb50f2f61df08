package analytics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surafelx/portfolio26/metrics"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/mq"
	"github.com/surafelx/portfolio26/store"
	tu "github.com/surafelx/portfolio26/testutil"
)

const firefox = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"

func newTracker(t *testing.T) (*Tracker, store.Events) {
	events := tu.NewSQLiteBackend(t).Events
	return NewTracker(events, nil, nil, nil), events
}

func TestRecordVisitParsesUserAgent(t *testing.T) {
	tr, _ := newTracker(t)
	ev, err := tr.Record(context.Background(), models.SubjectVisit, "ignored", Client{IP: "1.2.3.4", UserAgent: firefox})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ev.ID, "visit-"))
	assert.Empty(t, ev.SubjectID)
	assert.Equal(t, "Firefox", ev.Browser)
	assert.Contains(t, ev.OS, "Linux")
	assert.False(t, ev.Bot)
}

func TestRecordViewDefaultsClient(t *testing.T) {
	tr, _ := newTracker(t)
	ev, err := tr.Record(context.Background(), models.SubjectNote, "note-1", Client{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ev.ID, "view-"))
	assert.Equal(t, "note-1", ev.SubjectID)
	assert.Equal(t, "unknown", ev.IP)
	assert.Equal(t, "unknown", ev.UserAgent)

	_, err = tr.Record(context.Background(), models.Subject("bogus"), "x", Client{})
	assert.Error(t, err)
}

func TestAggregateOrdersByCount(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	for _, id := range []string{"A", "B", "A"} {
		_, err := tr.Record(ctx, models.SubjectArticle, id, Client{})
		require.NoError(t, err)
	}
	got, err := tr.Aggregate(ctx, models.SubjectArticle)
	require.NoError(t, err)
	assert.Equal(t, []models.ViewCount{{ID: "A", Count: 2}, {ID: "B", Count: 1}}, got)
}

func TestDashboard(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	record := func(s models.Subject, id, ip string) {
		_, err := tr.Record(ctx, s, id, Client{IP: ip})
		require.NoError(t, err)
	}
	record(models.SubjectVisit, "", "1.1.1.1")
	record(models.SubjectVisit, "", "1.1.1.1")
	record(models.SubjectVisit, "", "2.2.2.2")
	record(models.SubjectProject, "p1", "1.1.1.1")
	record(models.SubjectProject, "p2", "1.1.1.1")
	record(models.SubjectProject, "p2", "1.1.1.1")
	record(models.SubjectNote, "n1", "1.1.1.1")

	d, err := tr.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.Visitors)
	assert.Equal(t, int64(2), d.UniqueVisitors)
	assert.Equal(t, int64(3), d.PageViews)
	assert.Equal(t, int64(3), d.ProjectsViewed)
	assert.Equal(t, int64(0), d.ArticlesRead)
	assert.Equal(t, int64(1), d.NotesRead)
	assert.Equal(t, []models.ViewCount{{ID: "p2", Count: 2}, {ID: "p1", Count: 1}}, d.ProjectStats)
	assert.Equal(t, []models.ViewCount{}, d.ArticleStats)
}

// memBuffer is an in-process Buffer.
type memBuffer struct {
	mu      sync.Mutex
	items   []models.ViewEvent
	pushErr error
}

func (b *memBuffer) Push(_ context.Context, ev models.ViewEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pushErr != nil {
		return b.pushErr
	}
	b.items = append(b.items, ev)
	return nil
}

func (b *memBuffer) Drain(_ context.Context, max int) ([]models.ViewEvent, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := min(max, len(b.items))
	out := append([]models.ViewEvent(nil), b.items[:n]...)
	b.items = b.items[n:]
	return out, 0, nil
}

func (b *memBuffer) Requeue(_ context.Context, events []models.ViewEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(append([]models.ViewEvent(nil), events...), b.items...)
	return nil
}

func (b *memBuffer) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

func TestRecordAsyncBuffersUntilFlush(t *testing.T) {
	tr, events := newTracker(t)
	buf := &memBuffer{}
	tr.WithBuffer(buf)
	ctx := context.Background()

	tr.RecordAsync(ctx, models.SubjectProject, "p1", Client{})
	tr.RecordAsync(ctx, models.SubjectProject, "p1", Client{})
	assert.Equal(t, 2, buf.len())

	n, err := events.Count(ctx, models.SubjectProject)
	require.NoError(t, err)
	assert.Zero(t, n)

	written, err := tr.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Zero(t, buf.len())

	n, err = events.Count(ctx, models.SubjectProject)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRecordAsyncFallsBackToDirectWrite(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	events := tu.NewSQLiteBackend(t).Events
	bus := mq.NewBus(nil, nil)
	var mu sync.Mutex
	var seen []mq.Event
	bus.Subscribe(func(_ context.Context, ev mq.Event) {
		mu.Lock()
		seen = append(seen, ev)
		mu.Unlock()
	})
	tr := NewTracker(events, bus, m, nil).WithBuffer(&memBuffer{pushErr: errors.New("redis down")})

	ctx, cancel := context.WithCancel(context.Background())
	tr.RecordAsync(ctx, models.SubjectArticle, "a1", Client{})
	cancel()
	tr.Wait()

	n, err := events.Count(context.Background(), models.SubjectArticle)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ViewsRecorded.WithLabelValues("article")))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, mq.Event{Type: "view", Action: "article", ID: "a1", At: seen[0].At}, seen[0])
}

// failingEvents rejects every write.
type failingEvents struct{ store.Events }

func (failingEvents) Append(context.Context, models.ViewEvent) error { return errors.New("disk full") }

func TestRecordAsyncSwallowsFailures(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	tr := NewTracker(failingEvents{}, nil, m, nil)

	assert.NotPanics(t, func() {
		tr.RecordAsync(context.Background(), models.SubjectNote, "n1", Client{})
		tr.Wait()
	})
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ViewFailures.WithLabelValues("note")))
}

func TestRunFlusherDrainsOnShutdown(t *testing.T) {
	tr, events := newTracker(t)
	buf := &memBuffer{}
	tr.WithBuffer(buf)
	tr.RecordAsync(context.Background(), models.SubjectNote, "n1", Client{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.RunFlusher(ctx, time.Hour)
		close(done)
	}()
	cancel()
	<-done

	n, err := events.Count(context.Background(), models.SubjectNote)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHandlers(t *testing.T) {
	tr, _ := newTracker(t)
	h := NewHandlers(tr, nil)
	router := httprouter.New()
	router.POST("/api/analytics/visits", h.RecordVisit)
	router.POST("/api/analytics/note-views", h.RecordView(models.SubjectNote))
	router.GET("/api/analytics", h.Dashboard)
	router.GET("/api/analytics/stats/:subject", h.Aggregate)

	send := func(method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		for k, v := range hdr {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := send(http.MethodPost, "/api/analytics/note-views", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Note ID required"}`, rec.Body.String())

	rec = send(http.MethodPost, "/api/analytics/note-views", `{"noteId":"note-1"}`, map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subjectId":"note-1"`)
	assert.Contains(t, rec.Body.String(), `"ip":"9.9.9.9"`)

	rec = send(http.MethodPost, "/api/analytics/visits", "", map[string]string{"User-Agent": firefox})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"browser":"Firefox"`)

	rec = send(http.MethodPost, "/api/analytics/visits", `{"ip":"5.5.5.5","userAgent":"curl/8.0"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ip":"5.5.5.5"`)

	rec = send(http.MethodGet, "/api/analytics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"visitors":2`)
	assert.Contains(t, rec.Body.String(), `"notesRead":1`)

	rec = send(http.MethodGet, "/api/analytics/stats/note", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"note-1","count":1}]`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, send(http.MethodGet, "/api/analytics/stats/visit", "", nil).Code)
}
