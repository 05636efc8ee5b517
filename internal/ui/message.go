package ui

import (
	"github.com/desertthunder/lagu/internal/catalog"
	"github.com/desertthunder/lagu/internal/form"
)

// catalogLoadedMsg carries the catalog once the single fetch has finished.
// A failed fetch arrives as an empty snapshot.
type catalogLoadedMsg struct {
	snapshot catalog.Snapshot
}

// resolvedMsg reports that a submission finished. The display state itself
// lives in the [form.Machine].
type resolvedMsg struct {
	generation uint64
	state      form.State
	applied    bool
}

// browserOpenedMsg reports the outcome of opening a Spotify link.
type browserOpenedMsg struct {
	url string
	err error
}
