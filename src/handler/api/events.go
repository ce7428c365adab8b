package api

import (
	"net/http"

	"wallplay/src/engine"
	"wallplay/src/surface"
	"wallplay/src/util/eventsource"
)

// events streams engine state changes and display commands to the widget.
// The renderer, the notification toaster and the media layer are all driven
// from this feed.
func (api *API) events(w http.ResponseWriter, r *http.Request) {
	es, err := eventsource.Begin(w, r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	listener := api.engine.Events().Listen(r.Context())
	display := api.display.Events().Listen(r.Context())

	// Prime a fresh client with the current state.
	es.Event("library", "{}")
	es.Event("playlist", "{}")
	es.EventJSON("playstate", map[string]interface{}{
		"state": api.engine.Status().State,
	})

	for {
		select {
		case event, ok := <-listener:
			if !ok {
				return
			}
			switch t := event.(type) {
			case engine.LibraryEvent:
				es.Event("library", "{}")
			case engine.PlaylistEvent:
				es.Event("playlist", "{}")
			case engine.PlayStateEvent:
				es.EventJSON("playstate", map[string]interface{}{
					"state": t.State,
				})
			case engine.HighlightEvent:
				es.EventJSON("highlight", t.Highlight)
			case engine.NotificationEvent:
				es.EventJSON("notification", map[string]interface{}{
					"message":  t.Message,
					"severity": t.Severity,
				})
			}
		case event, ok := <-display:
			if !ok {
				return
			}
			if cmd, isCmd := event.(surface.Command); isCmd {
				es.EventJSON("display", cmd)
			}
		}
	}
}
