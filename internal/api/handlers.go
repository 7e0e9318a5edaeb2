// Package api is the read-only ops surface. It reports on live sessions and
// the archive but creates nothing: rooms and participants only ever come into
// being through the websocket join message.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/inkwell-app/inkwell/backend/internal/archive"
	"github.com/inkwell-app/inkwell/backend/internal/ws"
)

type API struct {
	hub     *ws.Hub
	archive *archive.Store // nil when archiving is disabled
}

func New(hub *ws.Hub, archiveStore *archive.Store) *API {
	return &API{
		hub:     hub,
		archive: archiveStore,
	}
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding json response failed", "err", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"active_rooms":   a.hub.RoomCount(),
		"active_clients": a.hub.ClientCount(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}

	if a.archive != nil {
		if archStats, err := a.archive.Stats(); err == nil {
			for k, v := range archStats {
				stats[k] = v
			}
		}
	}

	jsonResponse(w, http.StatusOK, stats)
}

type RoomResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Participants int    `json:"participants"`
	ShapeCount   int    `json:"shape_count"`
}

// Live rooms with their participant and shape counts
func (a *API) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms := a.hub.Directory().List()

	response := make([]RoomResponse, 0, len(rooms))
	for _, rm := range rooms {
		response = append(response, RoomResponse{
			ID:           rm.ID,
			Name:         rm.Name,
			Participants: rm.ParticipantCount(),
			ShapeCount:   rm.Canvas.Len(),
		})
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"rooms": response,
		"count": len(response),
	})
}

// Archived room snapshots, newest first
func (a *API) ArchivedRoomsHandler(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		errorResponse(w, http.StatusNotFound, "archive disabled")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	rooms, err := a.archive.ListRooms(limit, offset)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "failed to list archived rooms")
		return
	}
	if rooms == nil {
		rooms = []archive.ArchivedRoom{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"rooms": rooms,
		"count": len(rooms),
	})
}
