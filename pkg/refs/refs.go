// Package refs implements the versioned element-reference manager: it
// snapshots observed page elements, hands out stable "version:ref"
// addresses for them, and rejects any reference whose version has gone
// stale.
package refs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Element is one addressable node observed on a page.
type Element struct {
	Tag        string
	Role       string
	Label      string
	Text       string
	Attributes map[string]string
}

// identityHash is a deterministic fingerprint of an element's stable
// properties, used to detect mutation across snapshots.
func identityHash(e Element) string {
	prefix := e.Text
	if len(prefix) > 32 {
		prefix = prefix[:32]
	}
	ariaLabel := e.Attributes["aria-label"]
	name := e.Attributes["name"]
	id := e.Attributes["id"]

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s", e.Tag, e.Role, ariaLabel, name, id, prefix)
	return hex.EncodeToString(h.Sum(nil))
}

// Snapshot is a versioned view of observed elements; refs are 1-indexed
// within their snapshot's version and are only ever valid against that
// version.
type Snapshot struct {
	Version   uint32
	Timestamp time.Time
	URL       string
	Elements  map[uint32]Element
	hashes    map[uint32]string
}

// FormatRef renders the "version:ref" form for ref within this snapshot.
func (s Snapshot) FormatRef(ref uint32) string {
	return fmt.Sprintf("%d:%d", s.Version, ref)
}

// ParseRef splits a "version:ref" string into its components.
func ParseRef(s string) (version, ref uint32, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed ref %q: expected \"version:ref\"", s)
	}
	v, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed ref %q: bad version: %w", s, err)
	}
	r, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed ref %q: bad ref: %w", s, err)
	}
	return uint32(v), uint32(r), nil
}
