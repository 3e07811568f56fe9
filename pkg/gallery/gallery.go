// Package gallery persists finished paintings.
//
// A saved painting is the encoded PNG plus enough metadata to list and
// display it: name, palette, canvas size, a small thumbnail, and creation
// time. Stores share one interface:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for deployments
//
// Listing returns metadata only; the PNG and thumbnail blobs are fetched
// per painting, so a gallery page never loads every image at once.
package gallery

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkbloom/inkbloom/pkg/errors"
)

// Painting is a saved canvas with its encoded image data.
type Painting struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Palette   string    `bson:"palette" json:"palette"`
	Width     int       `bson:"width" json:"width"`
	Height    int       `bson:"height" json:"height"`
	PNG       []byte    `bson:"png" json:"-"`
	Thumbnail []byte    `bson:"thumbnail" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Metadata is a painting without its image blobs, for listings.
type Metadata struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Palette   string    `bson:"palette" json:"palette"`
	Width     int       `bson:"width" json:"width"`
	Height    int       `bson:"height" json:"height"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Meta returns the painting's metadata view.
func (p *Painting) Meta() Metadata {
	return Metadata{
		ID:        p.ID,
		Name:      p.Name,
		Palette:   p.Palette,
		Width:     p.Width,
		Height:    p.Height,
		CreatedAt: p.CreatedAt,
	}
}

// Validate checks the painting before storage.
func (p *Painting) Validate() error {
	if err := errors.ValidateName(p.Name); err != nil {
		return err
	}
	if len(p.PNG) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "painting %q has no image data", p.Name)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"painting size %dx%d must be positive", p.Width, p.Height)
	}
	return nil
}

// Store is the interface for gallery storage backends.
type Store interface {
	// Save stores a painting. An empty ID gets one assigned; saving an
	// existing ID replaces the painting.
	Save(ctx context.Context, p *Painting) error

	// Get retrieves a painting with its image blobs.
	// Returns a PAINTING_NOT_FOUND error for unknown IDs.
	Get(ctx context.Context, id string) (*Painting, error)

	// List returns metadata for all paintings, newest first.
	List(ctx context.Context) ([]Metadata, error)

	// Delete removes a painting. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore is an in-memory gallery for development and testing.
type MemoryStore struct {
	mu        sync.RWMutex
	paintings map[string]*Painting
}

// NewMemoryStore creates an in-memory gallery.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{paintings: make(map[string]*Painting)}
}

func (s *MemoryStore) Save(ctx context.Context, p *Painting) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.paintings[p.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Painting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.paintings[id]
	if !ok {
		return nil, errors.New(errors.ErrCodePaintingNotFound, "painting %s not found", id)
	}
	copied := *p
	return &copied, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metas := make([]Metadata, 0, len(s.paintings))
	for _, p := range s.paintings {
		metas = append(metas, p.Meta())
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.paintings, id)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
