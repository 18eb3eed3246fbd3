package admin

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/proxymock/proxymock/pkg/mockapi"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// handleHealth handles GET /health.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: a.Uptime(),
	})
}

// handleStatus handles GET /status.
func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	version := a.version
	if version == "" {
		version = "dev"
	}

	store := a.engine.Store()
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:     "ok",
		Version:    version,
		Uptime:     a.Uptime(),
		RouteCount: a.engine.Table().Len(),
		ItemCount:  store.Len(),
		StoreReady: store.Ready(),
		Outcomes:   a.engine.Outcomes().Count(),
	})
}

// handleListRoutes handles GET /routes.
func (a *API) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes := a.engine.Table().Routes()
	result := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		result = append(result, RouteInfo{
			Action: string(route.Action.Op),
			Method: route.Action.Method,
			URL:    route.Pattern().String(),
		})
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListOutcomes handles GET /outcomes. Entries come back newest
// first; ?outcome= filters by category and ?limit= caps the count.
func (a *API) handleListOutcomes(w http.ResponseWriter, r *http.Request) {
	entries := a.engine.Outcomes().List()

	if filter := r.URL.Query().Get("outcome"); filter != "" {
		filtered := make([]*mockapi.Entry, 0, len(entries))
		for _, e := range entries {
			if string(e.Outcome) == filter {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "bad_limit", "limit must be a non-negative integer")
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	writeJSON(w, http.StatusOK, entries)
}

// handleClearOutcomes handles DELETE /outcomes.
func (a *API) handleClearOutcomes(w http.ResponseWriter, r *http.Request) {
	a.engine.Outcomes().Clear()
	w.WriteHeader(http.StatusNoContent)
}

// handleReload handles POST /reload: it rebuilds the route table from the
// definition file and swaps it in. The document store is not reloaded.
func (a *API) handleReload(w http.ResponseWriter, r *http.Request) {
	if a.loader == nil {
		writeError(w, http.StatusServiceUnavailable, "no_loader", "reload is not available")
		return
	}

	table, err := a.loader.ReloadTable()
	if err != nil {
		a.log.Error("reload via admin API failed", "error", err)
		writeError(w, http.StatusInternalServerError, "reload_failed", err.Error())
		return
	}

	a.engine.SwapTable(table)
	a.log.Info("route table reloaded via admin API", "routes", table.Len())
	writeJSON(w, http.StatusOK, ReloadResponse{RouteCount: table.Len()})
}
