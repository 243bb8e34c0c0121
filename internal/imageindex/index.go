package imageindex

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Snapshot is an immutable view of the image directory at one point in time.
type Snapshot struct {
	names []string
	set   map[string]struct{}
}

func (s Snapshot) Has(name string) bool {
	_, ok := s.set[name]
	return ok
}

// Names returns the file names sorted by name. The slice must not be modified.
func (s Snapshot) Names() []string {
	return s.names
}

func (s Snapshot) Len() int {
	return len(s.names)
}

// Index lists the image directory and keeps the result for ttl.
type Index struct {
	dir string
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	loadedAt time.Time
	current  *Snapshot
}

func New(dir string, ttl time.Duration, now func() time.Time) *Index {
	if now == nil {
		now = time.Now
	}
	return &Index{
		dir: dir,
		ttl: ttl,
		now: now,
	}
}

func (i *Index) Dir() string {
	return i.dir
}

// Snapshot returns the cached listing, rebuilding it when it is older than ttl.
// A failed listing is returned as an error and is not cached.
func (i *Index) Snapshot() (Snapshot, error) {
	now := i.now()

	i.mu.Lock()
	if i.current != nil && now.Sub(i.loadedAt) < i.ttl {
		snap := *i.current
		i.mu.Unlock()
		return snap, nil
	}
	i.mu.Unlock()

	snap, err := list(i.dir)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list image directory %s: %w", i.dir, err)
	}

	i.mu.Lock()
	i.current = &snap
	i.loadedAt = now
	i.mu.Unlock()

	log.Debugf("🖼️ Indexed %d images in %s", snap.Len(), i.dir)
	return snap, nil
}

// list keeps every non-directory entry, symlinks included.
func list(dir string) (Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{set: make(map[string]struct{}, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		snap.names = append(snap.names, name)
		snap.set[name] = struct{}{}
	}
	sort.Strings(snap.names)
	return snap, nil
}
