package media

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/utils"
)

const multipartMemory = 32 << 20

type Handler struct {
	ing      *Ingestor
	maxFiles int
}

func NewHandler(ing *Ingestor, maxFiles int) *Handler {
	return &Handler{ing: ing, maxFiles: maxFiles}
}

type linkInput struct {
	Link string `json:"link"`
}

// UploadByLink handles POST /api/upload-by-link and answers with the URL.
func (h *Handler) UploadByLink(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input linkInput
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	link, err := h.ing.IngestByLink(r.Context(), input.Link)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, link)
}

// Upload handles POST /api/upload with multipart field "photos". When every
// file succeeds the body is the array of URLs; otherwise 207 with per-file
// results in request order.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.ing.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(h.maxFiles+1)*h.ing.maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.RespondWithError(w, apperr.New(apperr.ValidationFailure, "Upload too large"))
			return
		}
		utils.RespondWithError(w, apperr.Wrap(apperr.ValidationFailure, "Unable to parse form", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["photos"]
	if len(headers) == 0 {
		utils.RespondWithError(w, apperr.New(apperr.ValidationFailure, "No photos uploaded"))
		return
	}
	if len(headers) > h.maxFiles {
		utils.RespondWithError(w, apperr.New(apperr.ValidationFailure, fmt.Sprintf("At most %d photos per upload", h.maxFiles)))
		return
	}

	staged, rejected, cleanup, err := h.ing.StageUploads(headers)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	defer cleanup()

	uploaded := h.ing.IngestUploaded(r.Context(), staged)
	results := orderResults(len(headers), uploaded, rejected)

	urls := make([]string, 0, len(results))
	for _, res := range results {
		if !res.OK() {
			utils.RespondWithJSON(w, http.StatusMultiStatus, results)
			return
		}
		urls = append(urls, res.URL)
	}
	utils.RespondWithJSON(w, http.StatusOK, urls)
}

// orderResults puts per-file outcomes back into request order.
func orderResults(n int, uploaded, rejected []Result) []Result {
	out := make([]Result, n)
	for _, res := range append(uploaded, rejected...) {
		if res.Index >= 0 && res.Index < n {
			out[res.Index] = res
		}
	}
	return out
}
