// pkg/types/inventory_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify link inventory bookkeeping and its count invariant

package types_test

import (
	"testing"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idA = types.StorageID{Device: 1, Object: 100}

func TestNewLinkInventory(t *testing.T) {
	inv := types.NewLinkInventory("/w/a.txt", idA, 3)

	assert.Equal(t, "/w/a.txt", inv.SourcePath)
	assert.Equal(t, idA, inv.StorageID)
	assert.Equal(t, uint64(2), inv.ExpectedOtherLinks)
	assert.Equal(t, uint64(2), inv.Remaining())
	assert.False(t, inv.IsComplete())
	assert.Empty(t, inv.Discovered())
}

func TestNewLinkInventory_SingleLinkIsComplete(t *testing.T) {
	inv := types.NewLinkInventory("/w/a.txt", idA, 1)
	assert.True(t, inv.IsComplete())
	assert.Equal(t, []string{"/w/a.txt"}, inv.Paths())
}

func TestAddDiscovered(t *testing.T) {
	inv := types.NewLinkInventory("/w/a.txt", idA, 3)

	added, err := inv.AddDiscovered("/w/b.txt")
	require.NoError(t, err)
	assert.True(t, added)

	// Self-identity never counts
	added, err = inv.AddDiscovered("/w/a.txt")
	require.NoError(t, err)
	assert.False(t, added)

	// Same path twice is recorded once
	added, err = inv.AddDiscovered("/w/b.txt")
	require.NoError(t, err)
	assert.False(t, added)

	assert.Equal(t, uint64(1), inv.Remaining())

	added, err = inv.AddDiscovered("/w/c.txt")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, inv.IsComplete())
	assert.Equal(t, []string{"/w/b.txt", "/w/c.txt"}, inv.Discovered())
	assert.Equal(t, []string{"/w/a.txt", "/w/b.txt", "/w/c.txt"}, inv.Paths())
}

func TestAddDiscovered_RefusesOverflow(t *testing.T) {
	inv := types.NewLinkInventory("/w/a.txt", idA, 2)
	_, err := inv.AddDiscovered("/w/b.txt")
	require.NoError(t, err)

	added, err := inv.AddDiscovered("/w/c.txt")
	require.Error(t, err)
	assert.False(t, added)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLinkCountChanged))
	assert.Equal(t, "/w/c.txt", errors.GetErrorDetails(err)["path"])
	assert.Equal(t, uint64(0), inv.Remaining(), "invariant still holds after refusal")
}

func TestDiscovered_ReturnsCopy(t *testing.T) {
	inv := types.NewLinkInventory("/w/a.txt", idA, 2)
	_, err := inv.AddDiscovered("/w/b.txt")
	require.NoError(t, err)

	got := inv.Discovered()
	got[0] = "/tampered"
	assert.Equal(t, []string{"/w/b.txt"}, inv.Discovered())
}

func TestRetire(t *testing.T) {
	inv := types.NewLinkInventory("/w/a.txt", idA, 2)
	_, err := inv.AddDiscovered("/w/b.txt")
	require.NoError(t, err)

	paths := inv.Retire()
	assert.Equal(t, []string{"/w/a.txt", "/w/b.txt"}, paths)
	assert.True(t, inv.Retired())
	assert.Empty(t, inv.Discovered())
	assert.Nil(t, inv.Retire(), "an inventory is consumed once")
}

func TestInventorySet(t *testing.T) {
	set := types.NewInventorySet()
	idB := types.StorageID{Device: 1, Object: 200}
	idC := types.StorageID{Device: 1, Object: 50}

	a := types.NewLinkInventory("/w/a.txt", idA, 1)
	b := types.NewLinkInventory("/w/b.txt", idB, 2)
	c := types.NewLinkInventory("/w/c.txt", idC, 1)
	assert.Nil(t, set.Put(b))
	assert.Nil(t, set.Put(a))
	assert.Nil(t, set.Put(c))

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []*types.LinkInventory{b, a, c}, set.All(), "declaration order is kept")

	got, ok := set.Get(idA)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = set.Get(types.StorageID{Device: 9, Object: 9})
	assert.False(t, ok)

	assert.Equal(t, []*types.LinkInventory{b}, set.Incomplete())

	replacement := types.NewLinkInventory("/w/a2.txt", idA, 1)
	assert.Same(t, a, set.Put(replacement))
	assert.Equal(t, 3, set.Len())
	assert.Same(t, replacement, set.All()[1])
}

func TestStorageID(t *testing.T) {
	id := types.StorageID{Device: 64768, Object: 1234}
	assert.Equal(t, "64768|1234", id.String())
	assert.False(t, id.IsZero())
	assert.True(t, types.StorageID{}.IsZero())
	assert.True(t, id.SameDevice(types.StorageID{Device: 64768, Object: 1}))
	assert.False(t, id.SameDevice(types.StorageID{Device: 1, Object: 1234}))
}
