// Package analytics records visits and content views and summarises them
// for the admin dashboard.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mssola/useragent"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/metrics"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/mq"
	"github.com/surafelx/portfolio26/store"
)

const (
	unknown = "unknown"

	// asyncTimeout bounds a fire-and-forget write when no buffer is configured.
	asyncTimeout = 5 * time.Second
	flushBatch   = 500
)

// Client identifies who caused an event.
type Client struct {
	IP        string
	UserAgent string
}

// Buffer queues events for a later bulk write.
type Buffer interface {
	Push(ctx context.Context, ev models.ViewEvent) error
	Drain(ctx context.Context, max int) ([]models.ViewEvent, int, error)
	Requeue(ctx context.Context, events []models.ViewEvent) error
}

type Tracker struct {
	events  store.Events
	buffer  Buffer
	bus     *mq.Bus
	metrics *metrics.Metrics
	log     *logx.Logger
	now     func() time.Time

	wg sync.WaitGroup
}

// NewTracker writes events straight to events. Use WithBuffer to queue
// asynchronous records instead.
func NewTracker(events store.Events, bus *mq.Bus, m *metrics.Metrics, log *logx.Logger) *Tracker {
	return &Tracker{events: events, bus: bus, metrics: m, log: logx.OrNop(log), now: time.Now}
}

func (t *Tracker) WithBuffer(b Buffer) *Tracker {
	t.buffer = b
	return t
}

// NewEvent builds the record for one access. Visits carry the parsed user
// agent; views carry the subject id.
func (t *Tracker) NewEvent(subject models.Subject, subjectID string, c Client) models.ViewEvent {
	ev := models.ViewEvent{
		ID:        eventID(subject),
		Subject:   subject,
		SubjectID: subjectID,
		IP:        orUnknown(c.IP),
		UserAgent: orUnknown(c.UserAgent),
		Timestamp: t.now().UTC(),
	}
	if subject == models.SubjectVisit {
		ev.SubjectID = ""
		ua := useragent.New(c.UserAgent)
		ev.Browser, _ = ua.Browser()
		ev.OS = ua.OS()
		ev.Bot = ua.Bot()
	}
	return ev
}

func eventID(s models.Subject) string {
	prefix := "view"
	if s == models.SubjectVisit {
		prefix = "visit"
	}
	return prefix + "-" + strings.ToLower(ulid.Make().String())
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknown
	}
	return s
}

// Record stores one event synchronously.
func (t *Tracker) Record(ctx context.Context, subject models.Subject, subjectID string, c Client) (models.ViewEvent, error) {
	if !subject.Valid() {
		return models.ViewEvent{}, fmt.Errorf("unknown subject %q", subject)
	}
	ev := t.NewEvent(subject, subjectID, c)
	if err := t.store(ctx, ev); err != nil {
		return ev, err
	}
	return ev, nil
}

func (t *Tracker) store(ctx context.Context, ev models.ViewEvent) error {
	if err := t.events.Append(ctx, ev); err != nil {
		t.metrics.ViewFailed(string(ev.Subject))
		return fmt.Errorf("record %s: %w", ev.Subject, err)
	}
	t.announce(ctx, ev)
	return nil
}

func (t *Tracker) announce(ctx context.Context, ev models.ViewEvent) {
	t.metrics.ViewRecorded(string(ev.Subject))
	t.bus.Emit(ctx, mq.Event{Type: "view", Action: string(ev.Subject), ID: ev.SubjectID, At: ev.Timestamp})
}

// RecordAsync records without blocking the caller. Failures are logged and
// counted, never returned.
func (t *Tracker) RecordAsync(ctx context.Context, subject models.Subject, subjectID string, c Client) {
	if !subject.Valid() {
		return
	}
	ev := t.NewEvent(subject, subjectID, c)
	ctx = context.WithoutCancel(ctx)

	if t.buffer != nil {
		err := t.buffer.Push(ctx, ev)
		if err == nil {
			return
		}
		t.log.Warn("[RecordAsync] buffer push failed, writing directly", "subject", subject, "error", err)
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, asyncTimeout)
		defer cancel()
		if err := t.store(ctx, ev); err != nil {
			t.log.Warn("[RecordAsync] view not recorded", "subject", subject, "id", subjectID, "error", err)
		}
	}()
}

// Wait blocks until in-flight asynchronous writes finish.
func (t *Tracker) Wait() { t.wg.Wait() }

// Flush moves buffered events into the store and returns how many were written.
func (t *Tracker) Flush(ctx context.Context) (int, error) {
	if t.buffer == nil {
		return 0, nil
	}
	written := 0
	for {
		batch, skipped, err := t.buffer.Drain(ctx, flushBatch)
		if err != nil {
			return written, err
		}
		if skipped > 0 {
			t.log.Warn("[Flush] dropped undecodable events", "count", skipped)
		}
		for i, ev := range batch {
			if err := t.events.Append(ctx, ev); err != nil {
				t.metrics.ViewFailed(string(ev.Subject))
				if rerr := t.buffer.Requeue(ctx, batch[i:]); rerr != nil {
					t.log.Error("[Flush] requeue failed", "lost", len(batch)-i, "error", rerr)
				}
				return written, fmt.Errorf("flush views: %w", err)
			}
			t.announce(ctx, ev)
			written++
		}
		if len(batch)+skipped < flushBatch {
			return written, nil
		}
	}
}

// RunFlusher flushes the buffer every interval until ctx ends, then once more.
func (t *Tracker) RunFlusher(ctx context.Context, interval time.Duration) {
	if t.buffer == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), asyncTimeout)
			if _, err := t.Flush(final); err != nil {
				t.log.Error("[RunFlusher] final flush failed", "error", err)
			}
			cancel()
			return
		case <-ticker.C:
			if n, err := t.Flush(ctx); err != nil {
				t.log.Error("[RunFlusher] flush failed", "error", err)
			} else if n > 0 {
				t.log.Debug("[RunFlusher] views flushed", "count", n)
			}
		}
	}
}

// Aggregate counts events of subject per id, highest first.
func (t *Tracker) Aggregate(ctx context.Context, subject models.Subject) ([]models.ViewCount, error) {
	return t.events.CountBySubject(ctx, subject)
}

// Dashboard gathers every figure concurrently.
func (t *Tracker) Dashboard(ctx context.Context) (models.Dashboard, error) {
	var d models.Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := t.events.VisitStats(ctx)
		if err != nil {
			return err
		}
		d.Visitors = stats.Total
		d.UniqueVisitors = stats.UniqueIPs
		d.PageViews = stats.Total
		return nil
	})
	g.Go(func() (err error) {
		d.ProjectStats, err = t.Aggregate(ctx, models.SubjectProject)
		return err
	})
	g.Go(func() (err error) {
		d.ArticleStats, err = t.Aggregate(ctx, models.SubjectArticle)
		return err
	})
	g.Go(func() (err error) {
		d.NoteStats, err = t.Aggregate(ctx, models.SubjectNote)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Dashboard{}, err
	}
	d.ProjectsViewed = total(d.ProjectStats)
	d.ArticlesRead = total(d.ArticleStats)
	d.NotesRead = total(d.NoteStats)
	return d, nil
}

func total(counts []models.ViewCount) int64 {
	var n int64
	for _, c := range counts {
		n += c.Count
	}
	return n
}
