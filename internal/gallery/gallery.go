// Package gallery holds the registered faces and matches query encodings against them.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
	"github.com/saturnino-fabrica-de-software/ponto/internal/imaging"
	"github.com/saturnino-fabrica-de-software/ponto/internal/provider"
)

// Entry is one registered person.
type Entry struct {
	Name     string
	Encoding []float64
}

// Snapshot is an immutable view of the gallery, ordered by file name.
type Snapshot struct {
	Entries  []Entry
	LoadedAt time.Time
}

// Names returns the registered names in gallery order.
func (s *Snapshot) Names() []string {
	if s == nil {
		return []string{}
	}
	names := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		names = append(names, e.Name)
	}
	return names
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Loader builds a Snapshot from the image files in a directory.
type Loader struct {
	dir     string
	encoder provider.FaceEncoder
	logger  *slog.Logger
}

func NewLoader(dir string, encoder provider.FaceEncoder, logger *slog.Logger) *Loader {
	return &Loader{
		dir:     dir,
		encoder: encoder,
		logger:  logger,
	}
}

// Dir is the directory the loader reads from.
func (l *Loader) Dir() string {
	return l.dir
}

// Load encodes every .jpg, .jpeg and .png file in the directory. Files that
// cannot be read or contain no face are skipped. A missing directory is an
// empty gallery.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	dirEntries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("faces directory does not exist", "dir", l.dir)
			return &Snapshot{Entries: []Entry{}, LoadedAt: time.Now()}, nil
		}
		return nil, fmt.Errorf("read faces dir %s: %w", l.dir, err)
	}

	// ReadDir already sorts by name; keep it explicit since ties in Match depend on it
	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !de.Type().IsRegular() || !imaging.IsGalleryFile(de.Name()) {
			continue
		}

		file := de.Name()
		name := strings.TrimSuffix(file, filepath.Ext(file))

		data, err := os.ReadFile(filepath.Join(l.dir, file))
		if err != nil {
			l.logger.Warn("skipping unreadable face image", "file", file, "error", err)
			continue
		}

		faces, err := l.encoder.Encode(ctx, data)
		if err != nil {
			if !errors.Is(err, domain.ErrDecodeImage) {
				// provider down or ctx done: the whole load fails so the old snapshot stays
				return nil, fmt.Errorf("encode %s: %w", file, err)
			}
			l.logger.Warn("skipping undecodable face image", "file", file, "error", err)
			continue
		}
		if len(faces) == 0 {
			l.logger.Warn("no face found in gallery image", "file", file)
			continue
		}

		entries = append(entries, Entry{Name: name, Encoding: faces[0].Encoding})
		l.logger.Debug("loaded face", "name", name, "faces_in_image", len(faces))
	}

	l.logger.Info("gallery loaded", "dir", l.dir, "faces", len(entries), "provider", l.encoder.Name())

	return &Snapshot{Entries: entries, LoadedAt: time.Now()}, nil
}

// Store keeps the current snapshot. Reads never block; reloads run one at a time.
type Store struct {
	loader  *Loader
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex
}

func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// Snapshot returns the current gallery, or nil before the first load.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Loaded reports whether at least one load has completed.
func (s *Store) Loaded() bool {
	return s.current.Load() != nil
}

// Reload rebuilds the gallery from disk and swaps it in. On error the
// previous snapshot stays active.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	return snap, nil
}

// Match runs Match against the current snapshot.
func (s *Store) Match(query []float64) Result {
	return Match(s.Snapshot(), query)
}
