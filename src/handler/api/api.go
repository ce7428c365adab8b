// Package api exposes the engine's operations over a REST interface. This
// is the dispatch surface the widget UI drives; every mutating route maps
// onto exactly one engine operation.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"wallplay/src/engine"
	"wallplay/src/util"
)

// API bundles the routes with the engine they operate on.
type API struct {
	engine *engine.Engine
	// display carries the commands the widget's media layer executes.
	display util.Eventer
}

// InitRouter attaches all API routes to the specified router.
func InitRouter(r chi.Router, eng *engine.Engine, display util.Eventer) {
	api := API{engine: eng, display: display}
	r.Use(jsonCtx)

	r.Route("/library", func(r chi.Router) {
		r.Get("/", api.libraryList)
		r.Post("/", api.libraryImport)
		r.Route("/{mediaID}", func(r chi.Router) {
			r.Patch("/", api.libraryUpdate)
			r.Delete("/", api.libraryRemove)
		})
	})

	r.Route("/selection", func(r chi.Router) {
		r.Get("/", api.selectionList)
		r.Post("/", api.selectionChange)
		r.Delete("/", api.selectionClear)
	})

	r.Route("/playlist", func(r chi.Router) {
		r.Get("/", api.playlistContents)
		r.Put("/", api.playlistInsert)
		r.Patch("/", api.playlistMove)
		r.Delete("/", api.playlistRemove)
		r.Post("/shuffle", api.playlistShuffle)
	})

	r.Route("/player", func(r chi.Router) {
		r.Get("/status", api.playerStatus)
		r.Post("/play", api.playerPlay)
		r.Post("/pause", api.playerPause)
		r.Post("/toggle", api.playerToggle)
		r.Post("/stop", api.playerStop)
		r.Post("/next", api.playerNext)
		r.Post("/current", api.playerSetCurrent)
		r.Post("/select", api.playerSelect)
		r.Post("/drop", api.playerDrop)
		r.Route("/element", func(r chi.Router) {
			r.Post("/ended", api.elementEnded)
			r.Post("/error", api.elementError)
			r.Post("/position", api.elementPosition)
		})
	})

	r.Get("/events", api.events)
}

func jsonCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// WriteError reports an error to the client as a JSON body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	log.Errorf("Error serving %s: %v", r.RemoteAddr, err)
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}

func writeOK(w http.ResponseWriter) {
	w.Write([]byte("{}"))
}

func decodeBody(w http.ResponseWriter, r *http.Request, data interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		WriteError(w, r, err)
		return false
	}
	return true
}
