package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"trackstash/logger"
	"trackstash/repository"
	"trackstash/storage"

	"github.com/gorilla/mux"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing;
// larger uploads spill to temporary files.
const maxUploadMemory = 32 << 20

// APIHandler holds dependencies for the HTTP handlers.
type APIHandler struct {
	trackRepo repository.TrackRepository
	store     storage.Provider
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(trackRepo repository.TrackRepository, store storage.Provider) *APIHandler {
	return &APIHandler{trackRepo: trackRepo, store: store}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// UploadTrackHandler ingests one audio file plus a title.
// Expected multipart form fields:
// - mp3: the audio file
// - title: track title
// The file is stored before the title is validated, matching upload
// middleware behavior; validation failures after that point delete the
// stored blob so nothing is orphaned. Extra form fields are ignored.
func (h *APIHandler) UploadTrackHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid file upload")
		return
	}

	file, header, err := r.FormFile("mp3")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid file upload")
		return
	}
	defer file.Close()

	location, err := h.store.Save(r.Context(), file, header.Size)
	if err != nil {
		logger.Error("failed to store upload", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to store the uploaded file")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		h.discardUpload(r, location)
		respondError(w, http.StatusBadRequest, "Invalid track data - title is missing")
		return
	}

	track, err := h.trackRepo.CreateTrack(title, location)
	if err != nil {
		h.discardUpload(r, location)
		if errors.Is(err, repository.ErrDuplicateSlug) {
			respondError(w, http.StatusBadRequest, "Track with this title already exists")
			return
		}
		logger.Error("failed to create track", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create track")
		return
	}

	logger.Info("track added",
		logger.String("id", track.ID),
		logger.String("slug", track.Slug),
		logger.String("location", track.FileLocation))

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Track added",
		"track":   track,
	})
}

// discardUpload removes a blob stored for a request that failed
// validation. Best-effort: a failure here is logged, not surfaced.
func (h *APIHandler) discardUpload(r *http.Request, location string) {
	if err := h.store.Remove(r.Context(), location); err != nil {
		logger.Warn("failed to remove rejected upload",
			logger.String("location", location),
			logger.ErrorField(err))
	}
}

// DownloadTrackHandler streams a track's audio back as an attachment
// named after its title. The slug is matched exactly as stored; no
// normalization happens on the query side.
func (h *APIHandler) DownloadTrackHandler(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	track, err := h.trackRepo.GetTrackBySlug(slug)
	if err != nil {
		respondError(w, http.StatusNotFound, "Track not found")
		return
	}

	blob, err := h.store.Open(r.Context(), track.FileLocation)
	if err != nil {
		logger.Error("track file unreadable despite metadata",
			logger.String("slug", track.Slug),
			logger.String("location", track.FileLocation),
			logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to download the MP3 file")
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", track.Title+".mp3"))

	if _, err := io.Copy(w, blob); err != nil {
		// Headers are already on the wire; all we can do is log.
		logger.Error("failed while streaming track",
			logger.String("slug", track.Slug),
			logger.ErrorField(err))
	}
}

// ListTracksHandler returns the whole library in ingestion order.
func (h *APIHandler) ListTracksHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.trackRepo.GetAllTracks())
}
