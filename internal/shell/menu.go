// Package shell owns the single window's lifecycle and the single-instance
// protocol around it.
package shell

import (
	"runtime"

	"github.com/grokdesk/grokdesk/internal/domain"
)

// modifier returns the platform's primary accelerator modifier.
func modifier() string {
	if runtime.GOOS == "darwin" {
		return "Cmd"
	}
	return "Ctrl"
}

// DefaultMenus is the static application menu. The menu bar is hidden by
// default; hosts surface it on demand (Alt on most platforms).
func DefaultMenus() []domain.Menu {
	mod := modifier()

	devToolsAccel := "F12"
	fullscreenAccel := "F11"
	if runtime.GOOS == "darwin" {
		devToolsAccel = "Alt+Cmd+I"
		fullscreenAccel = "Ctrl+Cmd+F"
	}

	return []domain.Menu{
		{
			Label: "File",
			Items: []domain.MenuItem{
				{Label: "Close Window", Role: "close", Accelerator: mod + "+W"},
				{Separator: true},
				{Label: "Quit", Role: "quit", Accelerator: mod + "+Q"},
			},
		},
		{
			Label: "View",
			Items: []domain.MenuItem{
				{Label: "Reload", Role: "reload", Accelerator: mod + "+R"},
				{Label: "Toggle Developer Tools", Role: "toggleDevTools", Accelerator: devToolsAccel},
				{Separator: true},
				{Label: "Zoom In", Role: "zoomIn", Accelerator: mod + "+Plus"},
				{Label: "Zoom Out", Role: "zoomOut", Accelerator: mod + "+-"},
				{Label: "Actual Size", Role: "resetZoom", Accelerator: mod + "+0"},
				{Separator: true},
				{Label: "Toggle Full Screen", Role: "togglefullscreen", Accelerator: fullscreenAccel},
			},
		},
	}
}

// ContextMenu is the native right-click menu shown inside the page.
func ContextMenu() domain.Menu {
	mod := modifier()
	return domain.Menu{
		Items: []domain.MenuItem{
			{Label: "Cut", Role: "cut", Accelerator: mod + "+X"},
			{Label: "Copy", Role: "copy", Accelerator: mod + "+C"},
			{Label: "Paste", Role: "paste", Accelerator: mod + "+V"},
			{Label: "Select All", Role: "selectAll", Accelerator: mod + "+A"},
			{Separator: true},
			{Label: "Reload", Role: "reload", Accelerator: mod + "+R"},
		},
	}
}
