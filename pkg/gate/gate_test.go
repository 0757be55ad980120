// pkg/gate/gate_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify the completeness gate passes only fully discovered batches

package gate_test

import (
	"testing"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/gate"
	"github.com/arthur-debert/relink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Complete(t *testing.T) {
	set := types.NewInventorySet()
	a := types.NewLinkInventory("/w/a.txt", types.StorageID{Device: 1, Object: 1}, 2)
	_, err := a.AddDiscovered("/w/b.txt")
	require.NoError(t, err)
	set.Put(a)
	set.Put(types.NewLinkInventory("/w/solo.txt", types.StorageID{Device: 1, Object: 2}, 1))

	assert.NoError(t, gate.Check(set))
}

func TestCheck_Empty(t *testing.T) {
	assert.NoError(t, gate.Check(types.NewInventorySet()))
}

func TestCheck_SingleShortfall(t *testing.T) {
	set := types.NewInventorySet()
	set.Put(types.NewLinkInventory("/w/a.txt", types.StorageID{Device: 1, Object: 1}, 3))

	err := gate.Check(set)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIncompleteDiscovery))
	assert.Contains(t, err.Error(), "/w/a.txt (2 of 2 missing)")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "/w/a.txt", details["source"])
	assert.Equal(t, uint64(2), details["remaining"])
}

func TestCheck_NamesEveryShortSource(t *testing.T) {
	set := types.NewInventorySet()
	a := types.NewLinkInventory("/w/a.txt", types.StorageID{Device: 1, Object: 1}, 3)
	_, err := a.AddDiscovered("/w/a2.txt")
	require.NoError(t, err)
	set.Put(a)
	set.Put(types.NewLinkInventory("/w/ok.txt", types.StorageID{Device: 1, Object: 2}, 1))
	set.Put(types.NewLinkInventory("/w/b.txt", types.StorageID{Device: 1, Object: 3}, 2))

	err = gate.Check(set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/w/a.txt (1 of 2 missing)")
	assert.Contains(t, err.Error(), "/w/b.txt (1 of 1 missing)")
	assert.NotContains(t, err.Error(), "ok.txt")

	assert.Equal(t, []gate.Shortfall{
		{Source: "/w/a.txt", Remaining: 1},
		{Source: "/w/b.txt", Remaining: 1},
	}, gate.Shortfalls(err))
	assert.NotContains(t, errors.GetErrorDetails(err), "source")
}

func TestShortfalls_OtherErrors(t *testing.T) {
	assert.Nil(t, gate.Shortfalls(nil))
	assert.Nil(t, gate.Shortfalls(errors.New(errors.ErrIO, "boom")))
}
