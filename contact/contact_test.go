package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surafelx/portfolio26/apperr"
	"github.com/surafelx/portfolio26/metrics"
	tu "github.com/surafelx/portfolio26/testutil"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		sub  Submission
		want string
	}{
		{"missing name", Submission{Email: "a@b.co", Message: "hi"}, "Missing required field: name"},
		{"missing email", Submission{Name: "Ann", Message: "hi"}, "Missing required field: email"},
		{"blank message", Submission{Name: "Ann", Email: "a@b.co", Message: "   "}, "Missing required field: message"},
		{"bad email", Submission{Name: "Ann", Email: "not-an-email", Message: "hi"}, "Invalid email format"},
		{"email without tld", Submission{Name: "Ann", Email: "a@b", Message: "hi"}, "Invalid email format"},
		{"too long", Submission{Name: "Ann", Email: "a@b.co", Message: strings.Repeat("x", MaxMessageLength+1)}, "Message must be at most 5000 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			require.ErrorIs(t, err, apperr.ErrInvalid)
			assert.Equal(t, tt.want, apperr.Message(err))
		})
	}

	ok := Submission{Name: " Ann ", Email: "ann@example.com", Message: strings.Repeat("é", MaxMessageLength)}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "Ann", ok.Name)
}

func newService(t *testing.T) (*Service, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	svc := NewService(tu.NewSQLiteBackend(t).Contacts, nil, m, nil)
	return svc, m
}

func TestSubmitListMarkRead(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	clock := time.Date(2024, 5, 5, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	first, err := svc.Submit(ctx, Submission{Name: "A", Email: "a@x.io", Message: "first"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ID, "contact-"))
	assert.False(t, first.Read)

	second, err := svc.Submit(ctx, Submission{Name: "B", Email: "b@x.io", Message: "second"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ContactMessages))

	_, err = svc.MarkRead(ctx, second.ID)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.True(t, all[1].Read)

	_, err = svc.MarkRead(ctx, "contact-missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSubmitHandler(t *testing.T) {
	svc, _ := newService(t)
	router := httprouter.New()
	router.POST("/api/contact", NewHandlers(svc, nil).Submit)

	post := func(contentType, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := post("application/json", `{"name":"Ann","message":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Missing required field: email"}`, rec.Body.String())

	rec = post("application/json", `{"name":"Ann","email":"ann@example.com","message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"message":"Message sent successfully"`)
	assert.Contains(t, rec.Body.String(), `"id":"contact-`)

	form := url.Values{"name": {"Bo"}, "email": {"bo@example.com"}, "message": {"via form"}}
	rec = post("application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusOK, rec.Code)
}
