package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surafelx/portfolio26/contact"
	"github.com/surafelx/portfolio26/models"
	"github.com/surafelx/portfolio26/testutil"
)

func TestContactInbox(t *testing.T) {
	backend := testutil.NewSQLiteBackend(t)
	svc := contact.NewService(backend.Contacts, nil, nil, nil)
	msg, err := svc.Submit(context.Background(), contact.Submission{Name: "Sam", Email: "sam@example.com", Message: "hi"})
	require.NoError(t, err)

	h := NewHandlers(svc, nil)
	router := httprouter.New()
	router.GET("/api/admin/contacts", h.GetContacts)
	router.PUT("/api/admin/contacts/:id/read", h.MarkContactRead)

	do := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	rec := do(http.MethodGet, "/api/admin/contacts")
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox []models.ContactMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inbox))
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].Read)

	rec = do(http.MethodPut, "/api/admin/contacts/"+msg.ID+"/read")
	require.Equal(t, http.StatusOK, rec.Code)
	var marked models.ContactMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &marked))
	assert.True(t, marked.Read)

	rec = do(http.MethodPut, "/api/admin/contacts/contact-missing/read")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Message not found"}`, rec.Body.String())
}
