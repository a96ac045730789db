package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmunix/photocat/internal/digest"
)

// Namer maps a resolved capture time to a destination path and
// resolves filename collisions deterministically. It consults, in
// order: the destination index (whole-tree dedup), placements claimed
// earlier in the same run, and finally the on-disk state. The claims
// layer is what lets a dry run predict collisions between files it
// only pretends to place.
type Namer struct {
	root    string
	index   *digest.Index
	claimed map[string]string // case-folded target path -> digest
}

// NewNamer returns a namer for one run against root. index must be the
// run's destination index; the namer records its own claims into it.
func NewNamer(root string, index *digest.Index) *Namer {
	return &Namer{
		root:    root,
		index:   index,
		claimed: make(map[string]string),
	}
}

// DayDir returns root/YYYY/YYYY-MM-DD for t, formatted in t's own
// location. There is no month level; the trips feature depends on this
// exact layout.
func (n *Namer) DayDir(t time.Time) string {
	return filepath.Join(n.root, t.Format("2006"), t.Format("2006-01-02"))
}

// Placement describes where a source file should land.
type Placement struct {
	// Path is the first non-colliding destination path.
	Path string
	// Renamed is true when a collision suffix was needed, regardless
	// of how many suffix attempts it took.
	Renamed bool
}

// Place picks the destination for a file named name with capture time
// t and content digest sum. It returns ErrDuplicate when the content
// already exists anywhere under the root or at a colliding name; a
// same-named file with identical bytes is a duplicate, not a rename
// target. Colliding names with different content get an incrementing
// numeric suffix before the extension (name_1.ext, name_2.ext, ...).
// Name comparison is case-insensitive.
func (n *Namer) Place(name string, t time.Time, sum string) (Placement, error) {
	if n.index.Contains(sum) {
		return Placement{}, ErrDuplicate
	}

	dir := n.DayDir(t)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	renamed := false
	for i := 1; ; i++ {
		occupant, occupied, err := n.digestAt(dir, candidate)
		if err != nil {
			return Placement{}, err
		}
		if !occupied {
			break
		}
		if occupant == sum {
			return Placement{}, ErrDuplicate
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		renamed = true
	}
	return Placement{Path: filepath.Join(dir, candidate), Renamed: renamed}, nil
}

// Claim records that sum now occupies path, whether on disk or only in
// a dry-run simulation, and adds it to the destination index.
func (n *Namer) Claim(path, sum string) {
	n.claimed[strings.ToLower(path)] = sum
	n.index.Add(sum)
}

// digestAt reports whether anything occupies dir/name (compared
// case-insensitively) and, if so, its digest. Claims from earlier in
// the run win over disk. A non-regular occupant reports an empty
// digest, which forces a rename rather than a duplicate skip.
func (n *Namer) digestAt(dir, name string) (string, bool, error) {
	if sum, ok := n.claimed[strings.ToLower(filepath.Join(dir, name))]; ok {
		return sum, true, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	for _, e := range entries {
		if !strings.EqualFold(e.Name(), name) {
			continue
		}
		if !e.Type().IsRegular() {
			return "", true, nil
		}
		sum, err := digest.Hash(filepath.Join(dir, e.Name()))
		if err != nil {
			return "", false, err
		}
		return sum, true, nil
	}
	return "", false, nil
}
