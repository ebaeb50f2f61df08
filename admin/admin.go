package admin

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/contact"
	"github.com/surafelx/portfolio26/content"
	"github.com/surafelx/portfolio26/logx"
	"github.com/surafelx/portfolio26/utils"
)

// Handlers back the admin inbox. Every route sits behind Authenticate.
type Handlers struct {
	contacts *contact.Service
	log      *logx.Logger
}

func NewHandlers(contacts *contact.Service, log *logx.Logger) *Handlers {
	return &Handlers{contacts: contacts, log: logx.OrNop(log)}
}

// GetContacts returns every contact message, unread first.
//
// Endpoint: GET /api/admin/contacts
func (h *Handlers) GetContacts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	msgs, err := h.contacts.List(ctx)
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, msgs)
}

// MarkContactRead flags one message as read.
//
// Endpoint: PUT /api/admin/contacts/:id/read
func (h *Handlers) MarkContactRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), content.Timeout)
	defer cancel()

	msg, err := h.contacts.MarkRead(ctx, ps.ByName("id"))
	if err != nil {
		content.Fail(w, r, h.log, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, msg)
}
