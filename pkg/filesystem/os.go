package filesystem

import (
	"github.com/arthur-debert/relink/pkg/types"
	"github.com/spf13/afero"
)

// NewOS creates the filesystem implementation backed by the real OS
func NewOS() types.FS {
	return NewAferoFS(afero.NewOsFs())
}
