package proxy

import (
	"net/http"
	"sort"
	"time"
)

// modelInfo is one entry in the model listing, shaped like the Anthropic
// /v1/models response so existing clients can populate their model pickers.
type modelInfo struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type modelList struct {
	Data    []modelInfo `json:"data"`
	HasMore bool        `json:"has_more"`
}

// modelsHandler lists the model aliases this relay accepts. The upstream's
// own model listing is not proxied; clients select by the names the model
// map recognizes.
func modelsHandler(modelMap map[string]string) http.HandlerFunc {
	ids := make([]string, 0, len(modelMap))
	for id := range modelMap {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	list := modelList{Data: make([]modelInfo, 0, len(ids))}
	now := time.Now().UTC().Truncate(time.Second)
	for _, id := range ids {
		list.Data = append(list.Data, modelInfo{
			Type:        "model",
			ID:          id,
			DisplayName: id,
			CreatedAt:   now,
		})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, list, http.StatusOK)
	}
}
