package filemgr

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/surafelx/portfolio26/mq"
	"github.com/surafelx/portfolio26/utils"
)

// UploadHandler serves POST /api/uploads/:entity with the image in the
// "photo" form field.
func (s *Store) UploadHandler(bus *mq.Bus) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		entity, err := ParseEntity(ps.ByName("entity"))
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Unsupported entity type")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+1<<20)
		if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		up, err := s.SaveFormFile(r.MultipartForm, string(PicPhoto), entity)
		switch {
		case errors.Is(err, ErrFileTooLarge):
			utils.RespondWithError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		case err != nil && isClientError(err):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			s.log.Error("[UploadHandler] store failed", "entity", entity, "error", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Upload failed")
			return
		}

		bus.Emit(r.Context(), mq.Event{Type: "upload", Action: "created", ID: up.URL})
		utils.RespondWithJSON(w, http.StatusCreated, up)
	}
}

func isClientError(err error) bool {
	for _, target := range []error{ErrMissingFile, ErrInvalidExtension, ErrInvalidMIME, ErrInvalidImage, ErrUnknownEntity} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
