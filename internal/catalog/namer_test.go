package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/photocat/internal/digest"
)

var placeDay = time.Date(2023, 7, 15, 12, 0, 0, 0, time.UTC)

func TestDayDir_FormatsInTimesLocation(t *testing.T) {
	n := NewNamer("/dest", digest.NewIndex())

	assert.Equal(t, filepath.Join("/dest", "2023", "2023-07-15"), n.DayDir(placeDay))

	// 23:30 at -02:00 is already the 16th in UTC, but the day directory
	// follows the timestamp's own frame
	loc := time.FixedZone("west", -2*60*60)
	late := time.Date(2023, 7, 15, 23, 30, 0, 0, loc)
	assert.Equal(t, filepath.Join("/dest", "2023", "2023-07-15"), n.DayDir(late))
}

func TestPlace_FreshName(t *testing.T) {
	n := NewNamer(t.TempDir(), digest.NewIndex())

	p, err := n.Place("a.jpg", placeDay, "sum-a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(n.root, "2023", "2023-07-15", "a.jpg"), p.Path)
	assert.False(t, p.Renamed)
}

func TestPlace_IndexDuplicate(t *testing.T) {
	ix := digest.NewIndex()
	ix.Add("sum-a")
	n := NewNamer(t.TempDir(), ix)

	_, err := n.Place("a.jpg", placeDay, "sum-a")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPlace_OnDiskSameContentIsDuplicate(t *testing.T) {
	root := t.TempDir()
	occupant := writeMedia(t, filepath.Join(root, "2023", "2023-07-15", "a.jpg"), "alpha", placeDay)
	n := NewNamer(root, digest.NewIndex())

	_, err := n.Place("a.jpg", placeDay, mustHash(t, occupant))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestPlace_CollisionGetsSuffix(t *testing.T) {
	root := t.TempDir()
	writeMedia(t, filepath.Join(root, "2023", "2023-07-15", "a.jpg"), "alpha", placeDay)
	writeMedia(t, filepath.Join(root, "2023", "2023-07-15", "a_1.jpg"), "beta", placeDay)
	n := NewNamer(root, digest.NewIndex())

	p, err := n.Place("a.jpg", placeDay, "sum-other")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2023", "2023-07-15", "a_2.jpg"), p.Path)
	assert.True(t, p.Renamed)
}

func TestPlace_CaseInsensitiveCollision(t *testing.T) {
	root := t.TempDir()
	writeMedia(t, filepath.Join(root, "2023", "2023-07-15", "IMG_001.JPG"), "one", placeDay)
	n := NewNamer(root, digest.NewIndex())

	p, err := n.Place("img_001.jpg", placeDay, "sum-two")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2023", "2023-07-15", "img_001_1.jpg"), p.Path)
	assert.True(t, p.Renamed)
}

// Claims stand in for placements that have not hit the disk, so a dry
// run predicts the same collisions and duplicates as a real one.
func TestPlace_ClaimsActLikePlacedFiles(t *testing.T) {
	n := NewNamer(filepath.Join(t.TempDir(), "never-created"), digest.NewIndex())

	p1, err := n.Place("a.jpg", placeDay, "sum-a")
	require.NoError(t, err)
	n.Claim(p1.Path, "sum-a")

	// same digest again: whole-tree duplicate via the index
	_, err = n.Place("other.jpg", placeDay, "sum-a")
	assert.ErrorIs(t, err, ErrDuplicate)

	// same name, new digest: collision against the claim only
	p2, err := n.Place("A.JPG", placeDay, "sum-b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(n.root, "2023", "2023-07-15", "A_1.JPG"), p2.Path)
	assert.True(t, p2.Renamed)
}
