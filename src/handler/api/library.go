package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"wallplay/src/engine"
	"wallplay/src/media"
)

func jsonMediaItem(item *media.Item, selected bool) interface{} {
	var struc struct {
		ID       string         `json:"id"`
		Name     string         `json:"name"`
		Type     media.Type     `json:"type"`
		MimeType string         `json:"mimetype"`
		Size     int64          `json:"size"`
		SizeText string         `json:"sizeText"`
		AddedAt  time.Time      `json:"addedAt"`
		Settings media.Settings `json:"settings"`
		Playable bool           `json:"playable"`
		Selected bool           `json:"selected"`
	}
	struc.ID = item.ID
	struc.Name = item.Name
	struc.Type = item.Type
	struc.MimeType = item.MimeType
	struc.Size = item.Size
	struc.SizeText = humanize.Bytes(uint64(item.Size))
	struc.AddedAt = item.AddedAt
	struc.Settings = item.Settings
	struc.Playable = item.Playable()
	struc.Selected = selected
	return struc
}

func (api *API) libraryList(w http.ResponseWriter, r *http.Request) {
	items := api.engine.MediaItems()
	selected := map[string]bool{}
	for _, id := range api.engine.SelectedIDs() {
		selected[id] = true
	}

	outList := make([]interface{}, len(items))
	for i, item := range items {
		outList[i] = jsonMediaItem(item, selected[item.ID])
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"media": outList,
	})
}

func (api *API) libraryImport(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Name        string     `json:"name"`
		Type        media.Type `json:"type"`
		MimeType    string     `json:"mimetype"`
		Size        int64      `json:"size"`
		PlayableRef string     `json:"playableRef"`
		Thumbnail   string     `json:"thumbnail"`
	}
	if !decodeBody(w, r, &data) {
		return
	}
	if !data.Type.Valid() {
		WriteError(w, r, fmt.Errorf("unknown media type %q", data.Type))
		return
	}
	if data.Name == "" {
		WriteError(w, r, fmt.Errorf("media name is required"))
		return
	}

	item := &media.Item{
		Name:        data.Name,
		Type:        data.Type,
		MimeType:    data.MimeType,
		Size:        data.Size,
		PlayableRef: data.PlayableRef,
		Thumbnail:   data.Thumbnail,
	}
	api.engine.AddMedia(item)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id": item.ID,
	})
}

func (api *API) libraryUpdate(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Name         *string           `json:"name"`
		Volume       *float64          `json:"volume"`
		PlaybackRate *float64          `json:"playbackRate"`
		Trim         *media.TrimWindow `json:"trim"`
	}
	if !decodeBody(w, r, &data) {
		return
	}

	ok := api.engine.UpdateMedia(chi.URLParam(r, "mediaID"), engine.MediaUpdate{
		Name:         data.Name,
		Volume:       data.Volume,
		PlaybackRate: data.PlaybackRate,
		Trim:         data.Trim,
	})
	if !ok {
		WriteError(w, r, fmt.Errorf("no such media"))
		return
	}
	writeOK(w)
}

func (api *API) libraryRemove(w http.ResponseWriter, r *http.Request) {
	if !api.engine.DeleteMedia(chi.URLParam(r, "mediaID")) {
		WriteError(w, r, fmt.Errorf("no such media"))
		return
	}
	writeOK(w)
}

func (api *API) selectionList(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"selected": api.engine.SelectedIDs(),
	})
}

func (api *API) selectionChange(w http.ResponseWriter, r *http.Request) {
	var data struct {
		Op     string `json:"op"`
		ID     string `json:"id"`
		FromID string `json:"fromId"`
		ToID   string `json:"toId"`
	}
	if !decodeBody(w, r, &data) {
		return
	}

	switch data.Op {
	case "add":
		api.engine.SelectAdd(data.ID)
	case "remove":
		api.engine.SelectRemove(data.ID)
	case "toggle":
		api.engine.SelectToggle(data.ID)
	case "range":
		api.engine.SelectRange(data.FromID, data.ToID)
	default:
		WriteError(w, r, fmt.Errorf("unknown selection op %q", data.Op))
		return
	}
	writeOK(w)
}

func (api *API) selectionClear(w http.ResponseWriter, r *http.Request) {
	api.engine.SelectClear()
	writeOK(w)
}
