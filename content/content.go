// Package content holds the plumbing shared by the article, note, project
// and about services: cache invalidation, change events, metrics and error
// responses.
package content

import (
	"context"
	"net/http"
	"time"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/metrics"
	"github.com/surafelx/portfolio26/mq"
	"github.com/surafelx/portfolio26/rdx"
	"github.com/surafelx/portfolio26/utils"
)

// Deps are the collaborators every content service takes. All are optional.
type Deps struct {
	Cache   *rdx.Cache
	Bus     *mq.Bus
	Metrics *metrics.Metrics
	Log     *logx.Logger
	Now     func() time.Time
}

func (d Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

func (d Deps) Logger() *logx.Logger { return logx.OrNop(d.Log) }

// Changed invalidates cached listings of kind and announces the write.
func (d Deps) Changed(ctx context.Context, kind, action, id string, cacheKeys ...string) {
	d.Cache.Del(ctx, cacheKeys...)
	d.Metrics.ContentWrite(kind, action)
	d.Bus.Emit(ctx, mq.Event{Type: kind, Action: action, ID: id})
	d.Logger().Info("content changed", "type", kind, "action", action, "id", id)
}

// Cached returns the value under key, loading and storing it on a miss.
func Cached[T any](ctx context.Context, d Deps, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	if d.Cache.GetJSON(ctx, key, &v) {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	d.Cache.SetJSON(ctx, key, v)
	return v, nil
}

// Fail writes err as a JSON error. Server-side failures are logged with the
// request path and reported generically.
func Fail(w http.ResponseWriter, r *http.Request, log *logx.Logger, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logx.OrNop(log).Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	utils.RespondWithError(w, status, apperr.Message(err))
}

// Timeout bounds store calls made on behalf of one request.
const Timeout = 5 * time.Second
