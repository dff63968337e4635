package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"trackstash/logger"
	"trackstash/model"
)

// Sentinel errors the server layer maps to HTTP status codes.
var (
	ErrDuplicateSlug = errors.New("track with this title already exists")
	ErrTrackNotFound = errors.New("track not found")
)

// TrackRepository defines the interface for track metadata operations.
type TrackRepository interface {
	CreateTrack(title, fileLocation string) (*model.Track, error)
	GetTrackBySlug(slug string) (*model.Track, error)
	GetAllTracks() []*model.Track
	Count() int
}

// JSONTrackRepository implements TrackRepository over a single JSON
// document. The full library lives in memory; the document is rewritten
// wholesale after every successful mutation.
type JSONTrackRepository struct {
	mu     sync.RWMutex
	tracks []*model.Track

	// writeMu serializes rewrites of the backing document so overlapping
	// persists cannot interleave in the file.
	writeMu sync.Mutex
	pending sync.WaitGroup
	// selfWrites counts document replacements made by Persist that the
	// store watcher has not yet observed, so it can tell them apart from
	// external edits.
	selfWrites atomic.Int64
	path       string
}

// NewJSONTrackRepository loads the backing document at path into memory.
// A missing document starts an empty library.
func NewJSONTrackRepository(path string) (*JSONTrackRepository, error) {
	r := &JSONTrackRepository{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.tracks = make([]*model.Track, 0)
			return r, nil
		}
		return nil, fmt.Errorf("failed to read track store %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &r.tracks); err != nil {
		return nil, fmt.Errorf("failed to parse track store %s: %w", path, err)
	}
	return r, nil
}

// CreateTrack derives the slug from title, verifies it is unused, assigns
// the next positional id and appends the record. The slug check, id
// assignment and append form one critical section so concurrent uploads
// cannot mint colliding ids or slugs. The rewrite of the backing document
// runs on its own goroutine; the caller does not wait for it.
func (r *JSONTrackRepository) CreateTrack(title, fileLocation string) (*model.Track, error) {
	slug := model.Slugify(title)

	r.mu.Lock()
	for _, t := range r.tracks {
		if t.Slug == slug {
			r.mu.Unlock()
			return nil, ErrDuplicateSlug
		}
	}
	track := &model.Track{
		ID:           strconv.Itoa(len(r.tracks) + 1),
		Title:        title,
		Slug:         slug,
		FileLocation: fileLocation,
	}
	r.tracks = append(r.tracks, track)
	r.mu.Unlock()

	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		if err := r.Persist(); err != nil {
			logger.Error("failed to persist track store",
				logger.String("path", r.path),
				logger.ErrorField(err))
			return
		}
		logger.Debug("track store persisted", logger.String("path", r.path))
	}()

	return track, nil
}

// GetTrackBySlug returns the record whose slug matches exactly.
func (r *JSONTrackRepository) GetTrackBySlug(slug string) (*model.Track, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tracks {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, ErrTrackNotFound
}

// GetAllTracks returns the library in ingestion order.
func (r *JSONTrackRepository) GetAllTracks() []*model.Track {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tracks := make([]*model.Track, len(r.tracks))
	copy(tracks, r.tracks)
	return tracks
}

// Count returns the number of records in the library.
func (r *JSONTrackRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tracks)
}

// Flush blocks until rewrites triggered by earlier mutations finish.
func (r *JSONTrackRepository) Flush() {
	r.pending.Wait()
}

// Persist rewrites the backing document wholesale, pretty-printed. The
// new contents land in a temporary file renamed into place, so readers
// and the store watcher never observe a partially written document.
func (r *JSONTrackRepository) Persist() error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.RLock()
	data, err := json.MarshalIndent(r.tracks, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal track store: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write track store %s: %w", tmp, err)
	}
	// Mark the write before the rename lands so the watcher cannot see
	// the event first and reload stale contents over newer in-memory
	// state.
	r.selfWrites.Add(1)
	if err := os.Rename(tmp, r.path); err != nil {
		r.selfWrites.Add(-1)
		os.Remove(tmp)
		return fmt.Errorf("failed to replace track store %s: %w", r.path, err)
	}
	return nil
}

// Reload replaces the in-memory library with the current document contents.
func (r *JSONTrackRepository) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read track store %s: %w", r.path, err)
	}

	var tracks []*model.Track
	if err := json.Unmarshal(data, &tracks); err != nil {
		return fmt.Errorf("failed to parse track store %s: %w", r.path, err)
	}

	r.mu.Lock()
	r.tracks = tracks
	r.mu.Unlock()
	return nil
}
