// Package shotindex groups a flat shot list into episode, sequence and shot levels.
package shotindex

import (
	"slices"

	"github.com/vmunix/shotman/pkg/shotid"
)

// Index is an immutable episode -> sequence -> shot hierarchy plus the flat
// sorted shot list it was built from. Rebuild it instead of mutating it.
type Index struct {
	flat     []shotid.ID
	episodes []string
	tree     map[string]*episode
}

type episode struct {
	sequences []string
	shots     map[string][]string
}

// Build creates an index from shots. Duplicates are dropped. Every level is
// sorted as strings, so "10" sorts before "2".
func Build(shots []shotid.ID) *Index {
	flat := slices.Clone(shots)
	slices.SortFunc(flat, shotid.Compare)
	flat = slices.Compact(flat)

	idx := &Index{
		flat: flat,
		tree: make(map[string]*episode),
	}

	for _, id := range flat {
		ep, ok := idx.tree[id.Episode]
		if !ok {
			ep = &episode{shots: make(map[string][]string)}
			idx.tree[id.Episode] = ep
			idx.episodes = append(idx.episodes, id.Episode)
		}
		if _, ok := ep.shots[id.Sequence]; !ok {
			ep.sequences = append(ep.sequences, id.Sequence)
		}
		ep.shots[id.Sequence] = append(ep.shots[id.Sequence], id.Shot)
	}

	// The flat order sorts on the canonical string, which is not the same as
	// sorting each token on its own once token lengths differ.
	slices.Sort(idx.episodes)
	for _, ep := range idx.tree {
		slices.Sort(ep.sequences)
		for sq := range ep.shots {
			slices.Sort(ep.shots[sq])
		}
	}
	return idx
}

// Empty returns an index with no shots.
func Empty() *Index {
	return Build(nil)
}

// Episodes returns the episode tokens.
func (x *Index) Episodes() []string {
	return slices.Clone(x.episodes)
}

// Sequences returns the sequence tokens of episode ep, or nil if unknown.
func (x *Index) Sequences(ep string) []string {
	e, ok := x.tree[ep]
	if !ok {
		return nil
	}
	return slices.Clone(e.sequences)
}

// Shots returns the shot tokens of ep/sq, or nil if unknown.
func (x *Index) Shots(ep, sq string) []string {
	e, ok := x.tree[ep]
	if !ok {
		return nil
	}
	return slices.Clone(e.shots[sq])
}

// Len returns the number of shots.
func (x *Index) Len() int {
	return len(x.flat)
}

// At returns the shot at position i of the flat list.
func (x *Index) At(i int) (shotid.ID, bool) {
	if i < 0 || i >= len(x.flat) {
		return shotid.ID{}, false
	}
	return x.flat[i], true
}

// All returns a copy of the flat sorted shot list.
func (x *Index) All() []shotid.ID {
	return slices.Clone(x.flat)
}

// Contains reports whether id is indexed.
func (x *Index) Contains(id shotid.ID) bool {
	_, ok := x.IndexOf(id)
	return ok
}

// IndexOf returns the position of id in the flat list.
func (x *Index) IndexOf(id shotid.ID) (int, bool) {
	return slices.BinarySearchFunc(x.flat, id, shotid.Compare)
}
