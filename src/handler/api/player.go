package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"wallplay/src/engine"
)

func (api *API) playlistContents(w http.ResponseWriter, r *http.Request) {
	items := api.engine.PlaylistItems()
	status := api.engine.Status()

	outList := make([]interface{}, len(items))
	for i, id := range items {
		if item := api.engine.FindMedia(id); item != nil {
			outList[i] = jsonMediaItem(item, false)
		} else {
			// Dangling entry; playback heals these lazily.
			outList[i] = map[string]interface{}{"id": id}
		}
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items":   outList,
		"current": status.Current,
		"shuffle": status.Shuffle,
	})
}

func (api *API) playlistInsert(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Position int      `json:"position"`
		IDs      []string `json:"ids"`
	}
	if !decodeBody(w, r, &data) {
		return
	}
	if len(data.IDs) == 0 {
		WriteError(w, r, fmt.Errorf("no media ids specified"))
		return
	}

	added := api.engine.AddAllToPlaylist(data.IDs, data.Position)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"added": added,
	})
}

func (api *API) playlistMove(w http.ResponseWriter, r *http.Request) {
	var data struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if !decodeBody(w, r, &data) {
		return
	}
	api.engine.MoveInPlaylist(data.From, data.To)
	writeOK(w)
}

func (api *API) playlistRemove(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Positions []int `json:"positions"`
		Clear     bool  `json:"clear"`
	}
	if !decodeBody(w, r, &data) {
		return
	}
	if data.Clear {
		api.engine.ClearPlaylist()
		writeOK(w)
		return
	}

	// Remove from the highest position down so the lower indices stay
	// stable while we go.
	sort.Sort(sort.Reverse(sort.IntSlice(data.Positions)))
	for _, pos := range data.Positions {
		api.engine.RemoveFromPlaylist(pos)
	}
	writeOK(w)
}

func (api *API) playlistShuffle(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Shuffle bool `json:"shuffle"`
	}
	if !decodeBody(w, r, &data) {
		return
	}
	api.engine.SetShuffle(data.Shuffle)
	writeOK(w)
}

func (api *API) playerStatus(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(api.engine.Status())
}

func (api *API) playerPlay(w http.ResponseWriter, r *http.Request) {
	api.engine.PlayPlaylist()
	writeOK(w)
}

func (api *API) playerPause(w http.ResponseWriter, r *http.Request) {
	api.engine.PausePlaylist()
	writeOK(w)
}

func (api *API) playerToggle(w http.ResponseWriter, r *http.Request) {
	api.engine.TogglePlaylist()
	writeOK(w)
}

func (api *API) playerStop(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Reset bool `json:"reset"`
	}
	if !decodeBody(w, r, &data) {
		return
	}
	api.engine.StopPlaylist(data.Reset)
	writeOK(w)
}

func (api *API) playerNext(w http.ResponseWriter, r *http.Request) {
	api.engine.AdvanceToNext()
	writeOK(w)
}

func (api *API) playerSetCurrent(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Current int `json:"current"`
	}
	if !decodeBody(w, r, &data) {
		return
	}
	api.engine.PlayByIndex(data.Current)
	writeOK(w)
}

func (api *API) playerSelect(w http.ResponseWriter, r *http.Request) {
	var data struct {
		ID   string `json:"id"`
		Loop bool   `json:"loop"`
	}
	if !decodeBody(w, r, &data) {
		return
	}
	api.engine.SelectMedia(data.ID, data.Loop)
	writeOK(w)
}

func (api *API) playerDrop(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Payload json.RawMessage   `json:"payload"`
		Target  engine.DropTarget `json:"target"`
	}
	if !decodeBody(w, r, &data) {
		return
	}

	payload, err := engine.ParseDropPayload(data.Payload)
	if err != nil {
		// Unrecognized drag data is dropped without touching any state.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"accepted": false,
		})
		return
	}
	accepted := api.engine.HandleDrop(payload, data.Target)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"accepted": accepted,
	})
}

func (api *API) elementEnded(w http.ResponseWriter, r *http.Request) {
	api.engine.OnMediaEnded()
	writeOK(w)
}

func (api *API) elementError(w http.ResponseWriter, r *http.Request) {
	api.engine.OnMediaError()
	writeOK(w)
}

func (api *API) elementPosition(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Position float64 `json:"position"`
	}
	if !decodeBody(w, r, &data) {
		return
	}
	api.engine.OnMediaPosition(data.Position)
	writeOK(w)
}
