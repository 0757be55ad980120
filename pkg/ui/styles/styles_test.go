// pkg/ui/styles/styles_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Verify the embedded style registry loads and lookups are safe

package styles_test

import (
	"testing"

	"github.com/arthur-debert/relink/pkg/ui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStyles(t *testing.T) {
	for _, name := range []string{"Header", "Success", "Error", "ErrorDetail", "Warning", "Muted", "FilePath", "Bold", "DryRunBanner"} {
		_, ok := styles.StyleRegistry[name]
		assert.True(t, ok, "Style %s should exist in registry", name)
	}
	assert.NotEqual(t, lipgloss.NewStyle(), styles.GetStyle("Success"))
}

func TestGetStyle_Unknown(t *testing.T) {
	assert.Equal(t, lipgloss.NewStyle(), styles.GetStyle("NoSuchStyle"))
	assert.Contains(t, styles.Render("NoSuchStyle", "plain"), "plain")
}

func TestLoadStylesFromData(t *testing.T) {
	t.Cleanup(func() {
		_ = styles.LoadStylesFromData(styles.EmbeddedStyles)
	})

	err := styles.LoadStylesFromData([]byte(`
colors:
  red: {light: "#ff0000", dark: "#ff0000"}
styles:
  Alert: {bold: true, foreground: red}
`))
	require.NoError(t, err)
	_, ok := styles.StyleRegistry["Alert"]
	assert.True(t, ok)

	assert.Error(t, styles.LoadStylesFromData([]byte("colors: [")))
}
