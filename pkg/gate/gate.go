// Package gate refuses to let a batch proceed to relocation until every
// hard link of every source has been discovered.
package gate

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/arthur-debert/relink/pkg/types"
)

// Shortfall names a source whose links were not all found
type Shortfall struct {
	Source    string
	Remaining uint64
}

// Check returns nil when every inventory is complete. Otherwise it returns
// an INCOMPLETE_DISCOVERY error naming each short source and how many links
// it is missing. Check never touches the filesystem.
func Check(set *types.InventorySet) error {
	logger := logging.GetLogger("gate.check")

	incomplete := set.Incomplete()
	if len(incomplete) == 0 {
		logger.Debug().Int("inventories", set.Len()).Msg("Discovery complete")
		return nil
	}

	shortfalls := make([]Shortfall, 0, len(incomplete))
	parts := make([]string, 0, len(incomplete))
	for _, inv := range incomplete {
		shortfalls = append(shortfalls, Shortfall{Source: inv.SourcePath, Remaining: inv.Remaining()})
		parts = append(parts, fmt.Sprintf("%s (%d of %d missing)", inv.SourcePath, inv.Remaining(), inv.ExpectedOtherLinks))
		logger.Warn().
			Str("source", inv.SourcePath).
			Uint64("remaining", inv.Remaining()).
			Msg("Links not found")
	}

	err := errors.Newf(errors.ErrIncompleteDiscovery,
		"not all links were found, try a broader search: %s", strings.Join(parts, ", ")).
		WithDetail("shortfalls", shortfalls)
	if len(shortfalls) == 1 {
		err = err.WithDetail("source", shortfalls[0].Source).
			WithDetail("remaining", shortfalls[0].Remaining)
	}
	return err
}

// Shortfalls extracts the per-source shortfalls from a Check error
func Shortfalls(err error) []Shortfall {
	details := errors.GetErrorDetails(err)
	if details == nil {
		return nil
	}
	s, _ := details["shortfalls"].([]Shortfall)
	return s
}
