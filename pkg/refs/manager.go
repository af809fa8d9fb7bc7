package refs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// defaultHistorySize is the default bound on retained snapshots (LRU
// eviction of the lowest version), per spec.md §5.
const defaultHistorySize = 5

// Manager owns the monotonic version counter and the bounded snapshot
// history for one guard session. It is not safe to share across sessions
// (see spec.md §5 Sharing); each session owns its own Manager.
type Manager struct {
	mu          sync.Mutex
	version     uint32
	history     []uint32 // insertion order, oldest first
	snapshots   map[uint32]*Snapshot
	historySize int
	now         func() time.Time
}

// NewManager constructs a Manager retaining at most historySize
// snapshots. A historySize of 0 uses the spec default of 5.
func NewManager(historySize int) *Manager {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Manager{
		snapshots:   make(map[uint32]*Snapshot),
		historySize: historySize,
		now:         time.Now,
	}
}

// CreateSnapshot increments the version counter, assigns 1-indexed refs to
// elements in observation order, computes each element's identity hash,
// and stores the snapshot, evicting the oldest if the history is full.
func (m *Manager) CreateSnapshot(url string, elements []Element) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.version++
	snap := &Snapshot{
		Version:   m.version,
		Timestamp: m.now(),
		URL:       url,
		Elements:  make(map[uint32]Element, len(elements)),
		hashes:    make(map[uint32]string, len(elements)),
	}
	for idx, el := range elements {
		ref := uint32(idx + 1)
		snap.Elements[ref] = el
		snap.hashes[ref] = identityHash(el)
	}

	m.snapshots[m.version] = snap
	m.history = append(m.history, m.version)
	if len(m.history) > m.historySize {
		evict := m.history[0]
		m.history = m.history[1:]
		delete(m.snapshots, evict)
	}

	return *snap
}

// CurrentVersion returns the most recently created snapshot's version.
func (m *Manager) CurrentVersion() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// ValidateRef reports whether a "version:ref" string addresses a live
// element in the current snapshot. The only valid version is the current
// one; anything else is stale.
func (m *Manager) ValidateRef(ref string) (Element, error) {
	version, r, err := ParseRef(ref)
	if err != nil {
		return Element{}, err
	}

	m.mu.Lock()
	current := m.version
	var snap *Snapshot
	if version == current {
		snap = m.snapshots[version]
	}
	m.mu.Unlock()

	if version != current {
		return Element{}, &StaleError{RequestedVersion: version, CurrentVersion: current}
	}
	if snap == nil {
		return Element{}, &NotFoundError{Ref: ref}
	}
	el, ok := snap.Elements[r]
	if !ok {
		return Element{}, &NotFoundError{Ref: ref}
	}
	return el, nil
}

// Snapshot returns a copy of the snapshot for the given version, if still
// retained.
func (m *Manager) Snapshot(version uint32) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snapshots[version]
	if !ok {
		return Snapshot{}, false
	}
	return *snap, true
}

// HasElementChanged compares the identity hash of oldRef's element against
// the element at the same ref number in currentSnapshot.
func (m *Manager) HasElementChanged(oldRef string, currentSnapshot Snapshot) (bool, error) {
	_, r, err := ParseRef(oldRef)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	oldVersion, _, _ := ParseRef(oldRef)
	oldSnap, ok := m.snapshots[oldVersion]
	m.mu.Unlock()
	if !ok {
		return false, &NotFoundError{Ref: oldRef}
	}

	oldHash, ok := oldSnap.hashes[r]
	if !ok {
		return false, &NotFoundError{Ref: oldRef}
	}
	newHash, ok := currentSnapshot.hashes[r]
	if !ok {
		return true, nil
	}
	return oldHash != newHash, nil
}

// FormatForLLM produces a compact textual view of a snapshot, one line
// per element, truncated to maxElements with a trailing note if more were
// present (maxElements <= 0 shows every element). It formats only the
// snapshot passed in; it has no access to a Manager and so cannot default
// to the current snapshot.
func FormatForLLM(snap Snapshot, maxElements int) string {
	refsOrdered := make([]uint32, 0, len(snap.Elements))
	for ref := range snap.Elements {
		refsOrdered = append(refsOrdered, ref)
	}
	sort.Slice(refsOrdered, func(i, j int) bool { return refsOrdered[i] < refsOrdered[j] })

	var b strings.Builder
	shown := refsOrdered
	truncated := 0
	if maxElements > 0 && len(shown) > maxElements {
		truncated = len(shown) - maxElements
		shown = shown[:maxElements]
	}

	for _, ref := range shown {
		el := snap.Elements[ref]
		fmt.Fprintf(&b, "ref=%s %s \"%s\" text=%q", snap.FormatRef(ref), el.Role, el.Label, el.Text)
		if len(el.Attributes) > 0 {
			b.WriteString(" [")
			first := true
			keys := make([]string, 0, len(el.Attributes))
			for k := range el.Attributes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if !first {
					b.WriteString(" ")
				}
				fmt.Fprintf(&b, "%s=%q", k, el.Attributes[k])
				first = false
			}
			b.WriteString("]")
		}
		b.WriteString("\n")
	}
	if truncated > 0 {
		fmt.Fprintf(&b, "... %d more elements truncated\n", truncated)
	}
	return b.String()
}
