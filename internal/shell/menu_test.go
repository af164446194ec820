package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMenus(t *testing.T) {
	menus := DefaultMenus()
	require.Len(t, menus, 2)
	assert.Equal(t, "File", menus[0].Label)
	assert.Equal(t, "View", menus[1].Label)

	roles := map[string]bool{}
	for _, m := range menus {
		for _, item := range m.Items {
			if item.Role != "" {
				roles[item.Role] = true
			}
		}
	}
	for _, want := range []string{"close", "quit", "reload", "toggleDevTools", "zoomIn", "zoomOut", "resetZoom", "togglefullscreen"} {
		assert.True(t, roles[want], "missing role %q", want)
	}
}

func TestMenuAcceleratorsUsePlatformModifier(t *testing.T) {
	mod := modifier()
	for _, m := range DefaultMenus() {
		for _, item := range m.Items {
			if item.Role == "quit" {
				assert.Equal(t, mod+"+Q", item.Accelerator)
			}
		}
	}
}

func TestContextMenu(t *testing.T) {
	menu := ContextMenu()
	require.NotEmpty(t, menu.Items)
	assert.Equal(t, "copy", menu.Items[1].Role)
}
