package tui

import (
	"github.com/linkverse/linkverse/internal/enrich"
	"github.com/linkverse/linkverse/internal/gateway"
	"github.com/linkverse/linkverse/internal/store"
)

type dataLoadedMsg struct {
	snap store.Snapshot
	err  error
}

type dataErrMsg struct {
	err error
}

type linkSavedMsg struct {
	link gateway.Link
}

type linkDeletedMsg struct {
	id string
}

type favoriteToggledMsg struct {
	link gateway.Link
}

// analyzeRequestMsg fires after the debounce delay with the URL that was
// current when typing paused.
type analyzeRequestMsg struct {
	url string
}

type metadataMsg struct {
	url string
	md  enrich.Metadata
}

type analyzeFailedMsg struct {
	url string
	err error
}
