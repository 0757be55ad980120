package types

import (
	"github.com/arthur-debert/relink/pkg/errors"
)

// LinkInventory tracks, for one source file, how many other directory
// entries share its storage object and which of them have been found.
type LinkInventory struct {
	// SourcePath is the absolute, cleaned path of the declared source
	SourcePath string

	// StorageID identifies the storage object behind SourcePath
	StorageID StorageID

	// ExpectedOtherLinks is the hard-link count at stat time minus one
	ExpectedOtherLinks uint64

	discovered []string
	seen       map[string]struct{}
	retired    bool
}

// NewLinkInventory creates an inventory from a source's stat results.
// linkCount is the total number of hard links, including sourcePath.
func NewLinkInventory(sourcePath string, id StorageID, linkCount uint64) *LinkInventory {
	expected := uint64(0)
	if linkCount > 0 {
		expected = linkCount - 1
	}
	return &LinkInventory{
		SourcePath:         sourcePath,
		StorageID:          id,
		ExpectedOtherLinks: expected,
		seen:               make(map[string]struct{}),
	}
}

// AddDiscovered records path as another link to this inventory's storage
// object. It returns false without error when the path is the source itself
// or was already recorded. Recording more links than the stat reported
// means the filesystem changed underneath us and is refused.
func (inv *LinkInventory) AddDiscovered(path string) (bool, error) {
	if path == inv.SourcePath {
		return false, nil
	}
	if _, ok := inv.seen[path]; ok {
		return false, nil
	}
	if uint64(len(inv.discovered)) >= inv.ExpectedOtherLinks {
		return false, errors.Newf(errors.ErrLinkCountChanged,
			"%s has more links than the %d reported at stat time", inv.SourcePath, inv.ExpectedOtherLinks+1).
			WithDetail("source", inv.SourcePath).
			WithDetail("path", path)
	}
	if inv.seen == nil {
		inv.seen = make(map[string]struct{})
	}
	inv.seen[path] = struct{}{}
	inv.discovered = append(inv.discovered, path)
	return true, nil
}

// Discovered returns a copy of the discovered other-link paths
func (inv *LinkInventory) Discovered() []string {
	out := make([]string, len(inv.discovered))
	copy(out, inv.discovered)
	return out
}

// Remaining is the number of links still unaccounted for
func (inv *LinkInventory) Remaining() uint64 {
	return inv.ExpectedOtherLinks - uint64(len(inv.discovered))
}

// IsComplete reports whether every other link has been discovered
func (inv *LinkInventory) IsComplete() bool {
	return inv.Remaining() == 0
}

// Paths returns the source path followed by every discovered path
func (inv *LinkInventory) Paths() []string {
	out := make([]string, 0, len(inv.discovered)+1)
	out = append(out, inv.SourcePath)
	return append(out, inv.discovered...)
}

// Retire drains the inventory for relocation. It returns the paths to
// replace and leaves the inventory empty; a second call returns nil.
func (inv *LinkInventory) Retire() []string {
	if inv.retired {
		return nil
	}
	paths := inv.Paths()
	inv.retired = true
	inv.discovered = nil
	inv.seen = make(map[string]struct{})
	return paths
}

// Retired reports whether the inventory has already been consumed
func (inv *LinkInventory) Retired() bool {
	return inv.retired
}

// InventorySet indexes inventories by storage id and remembers the order
// in which sources were declared.
type InventorySet struct {
	byID  map[StorageID]*LinkInventory
	order []StorageID
}

// NewInventorySet creates an empty set
func NewInventorySet() *InventorySet {
	return &InventorySet{byID: make(map[StorageID]*LinkInventory)}
}

// Put stores inv under its storage id. An inventory already stored under the
// same id is replaced in place and returned.
func (s *InventorySet) Put(inv *LinkInventory) *LinkInventory {
	prev, exists := s.byID[inv.StorageID]
	s.byID[inv.StorageID] = inv
	if !exists {
		s.order = append(s.order, inv.StorageID)
	}
	return prev
}

// Get looks up the inventory for a storage id
func (s *InventorySet) Get(id StorageID) (*LinkInventory, bool) {
	inv, ok := s.byID[id]
	return inv, ok
}

// Len returns the number of inventories
func (s *InventorySet) Len() int {
	return len(s.order)
}

// All returns the inventories in declaration order
func (s *InventorySet) All() []*LinkInventory {
	out := make([]*LinkInventory, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Incomplete returns the inventories that still have undiscovered links
func (s *InventorySet) Incomplete() []*LinkInventory {
	var out []*LinkInventory
	for _, inv := range s.All() {
		if !inv.IsComplete() {
			out = append(out, inv)
		}
	}
	return out
}
