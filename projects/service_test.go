package projects

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/testutil"
)

func newService(t *testing.T) (*Service, *time.Time) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	backend := testutil.NewSQLiteBackend(t)
	return NewService(backend.Projects, content.Deps{Now: func() time.Time { return now }}), &now
}

func TestCreateDefaultsPriority(t *testing.T) {
	svc, _ := newService(t)
	p, err := svc.Create(context.Background(), models.Project{Title: "Gallium: a CMS", Tags: []string{"Go"}})
	require.NoError(t, err)
	assert.Equal(t, "gallium", p.ID)
	assert.Equal(t, DefaultPriority, p.Priority)
	assert.Equal(t, []string{"go"}, p.Tags)
	assert.Equal(t, []string{}, p.TechStack)
}

func TestCreateRejectsPriorityOutOfRange(t *testing.T) {
	svc, _ := newService(t)
	for _, prio := range []int{-1, 11} {
		_, err := svc.Create(context.Background(), models.Project{Title: "P", Priority: prio})
		assert.ErrorIs(t, err, apperr.ErrInvalid, "priority %d", prio)
	}
}

func TestListOrdering(t *testing.T) {
	svc, now := newService(t)
	ctx := context.Background()
	create := func(title string, prio int) {
		_, err := svc.Create(ctx, models.Project{Title: title, Priority: prio})
		require.NoError(t, err)
		*now = now.Add(time.Hour)
	}
	create("low", 1)
	create("old top", 9)
	create("new top", 9)
	create("middle", 0)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"new-top", "old-top", "middle", "low"}, ids)
}

func TestUpdateKeepsID(t *testing.T) {
	svc, now := newService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, models.Project{Title: "Original"})
	require.NoError(t, err)

	*now = now.Add(time.Minute)
	title, prio := "Renamed", 8
	u, err := svc.Update(ctx, p.ID, models.ProjectPatch{Title: &title, Priority: &prio})
	require.NoError(t, err)
	assert.Equal(t, "original", u.ID)
	assert.Equal(t, 8, u.Priority)
	assert.Equal(t, p.CreatedAt, u.CreatedAt)
	assert.True(t, u.UpdatedAt.After(p.UpdatedAt))

	bad := 42
	_, err = svc.Update(ctx, p.ID, models.ProjectPatch{Priority: &bad})
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	_, err = svc.Update(ctx, "nope", models.ProjectPatch{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFilter(t *testing.T) {
	all := []models.Project{
		{ID: "a", Title: "Chat app", TechStack: []string{"Go", "Redis"}},
		{ID: "b", Title: "Blog", Brief: "static site", Tags: []string{"web"}},
	}
	assert.Equal(t, "a", Filter(all, "redis", "")[0].ID)
	assert.Equal(t, "b", Filter(all, "STATIC", "")[0].ID)
	assert.Equal(t, "b", Filter(all, "", "web")[0].ID)
	assert.Len(t, Filter(all, "", ""), 2)
}

func TestProjectHandlers(t *testing.T) {
	svc, _ := newService(t)
	h := NewHandlers(svc, nil)
	router := httprouter.New()
	router.POST("/api/projects", h.Create)
	router.GET("/api/projects/:id", h.Get)
	router.DELETE("/api/projects/:id", h.Delete)

	send := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	rec := send(http.MethodPost, "/api/projects", `{"title":"Site","priority":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = send(http.MethodPost, "/api/projects", `{"title":"Other","priority":20}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Priority must be between 1 and 10"}`, rec.Body.String())

	rec = send(http.MethodGet, "/api/projects/site", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"priority":3`)

	assert.Equal(t, http.StatusOK, send(http.MethodDelete, "/api/projects/site", "").Code)
	assert.Equal(t, http.StatusNotFound, send(http.MethodDelete, "/api/projects/site", "").Code)
}
