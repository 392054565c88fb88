package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sustainers/sustain-chain/api/types"
	"github.com/sustainers/sustain-chain/metrics"
)

// PoolHandler handles money pool HTTP requests
type PoolHandler struct {
	service types.PoolService
}

// NewPoolHandler creates a new pool handler
func NewPoolHandler(service types.PoolService) *PoolHandler {
	return &PoolHandler{service: service}
}

// HandlePools handles /v1/pools (GET for list)
func (h *PoolHandler) HandlePools(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listPools(w, r)
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	}
}

// HandlePool handles /v1/pools/{id} and its sub-resources:
//
//	GET /v1/pools/{id}
//	GET /v1/pools/{id}/tappable
//	GET /v1/pools/{id}/share/{sustainer}
func (h *PoolHandler) HandlePool(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/pools/")
	parts := strings.Split(path, "/")
	if parts[0] == "" {
		writeError(w, http.StatusBadRequest, "missing_pool_id", "Pool ID is required")
		return
	}

	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid_pool_id", "Pool ID must be a positive integer")
		return
	}

	switch {
	case len(parts) == 1:
		h.getPool(w, r, id)
	case len(parts) == 2 && parts[1] == "tappable":
		h.getTappable(w, r, id)
	case len(parts) == 3 && parts[1] == "share":
		h.getShare(w, r, id, parts[2])
	default:
		writeError(w, http.StatusNotFound, "not_found", "Endpoint not found")
	}
}

// HandleOwner handles /v1/owners/{owner}/* endpoints:
//
//	GET /v1/owners/{owner}/pools
//	GET /v1/owners/{owner}/active
//	GET /v1/owners/{owner}/upcoming
func (h *PoolHandler) HandleOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/owners/")
	parts := strings.Split(path, "/")
	if parts[0] == "" {
		writeError(w, http.StatusBadRequest, "missing_owner", "Owner address is required")
		return
	}
	owner := parts[0]

	endpoint := ""
	if len(parts) > 1 {
		endpoint = parts[1]
	}

	switch endpoint {
	case "", "pools":
		h.getOwnerPools(w, r, owner)
	case "active":
		h.getActivePool(w, r, owner)
	case "upcoming":
		h.getUpcomingPool(w, r, owner)
	default:
		writeError(w, http.StatusNotFound, "not_found", "Endpoint not found")
	}
}

// HandleSustainer handles GET /v1/sustainers/{addr}/owners
func (h *PoolHandler) HandleSustainer(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v1/sustainers/")
	parts := strings.Split(path, "/")
	if parts[0] == "" {
		writeError(w, http.StatusBadRequest, "missing_sustainer", "Sustainer address is required")
		return
	}
	if len(parts) > 1 && parts[1] != "owners" {
		writeError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}
	sustainer := parts[0]

	owners, err := h.service.GetSustainedOwners(sustainer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_owners_failed", err.Error())
		return
	}
	if owners == nil {
		owners = []string{}
	}

	writeJSON(w, http.StatusOK, &types.SustainedOwnersResponse{
		Sustainer: sustainer,
		Owners:    owners,
	})
}

// listPools handles GET /v1/pools
func (h *PoolHandler) listPools(w http.ResponseWriter, r *http.Request) {
	timer := metrics.NewTimer()

	pools, err := h.service.GetPools()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_pools_failed", err.Error())
		return
	}

	metrics.GetCollector().RecordAPIRequest(r.Method, "/v1/pools", "200", timer.ElapsedMs())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pools": pools,
		"total": len(pools),
	})
}

// getPool handles GET /v1/pools/{id}
func (h *PoolHandler) getPool(w http.ResponseWriter, r *http.Request, id uint64) {
	pool, err := h.service.GetPool(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_pool_failed", err.Error())
		return
	}
	if pool == nil {
		writeError(w, http.StatusNotFound, "pool_not_found", "Pool not found")
		return
	}

	writeJSON(w, http.StatusOK, pool)
}

// getTappable handles GET /v1/pools/{id}/tappable
func (h *PoolHandler) getTappable(w http.ResponseWriter, r *http.Request, id uint64) {
	tappable, err := h.service.GetTappable(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_tappable_failed", err.Error())
		return
	}
	if tappable == nil {
		writeError(w, http.StatusNotFound, "pool_not_found", "Pool not found")
		return
	}

	writeJSON(w, http.StatusOK, tappable)
}

// getShare handles GET /v1/pools/{id}/share/{sustainer}
func (h *PoolHandler) getShare(w http.ResponseWriter, r *http.Request, id uint64, sustainer string) {
	if sustainer == "" {
		writeError(w, http.StatusBadRequest, "missing_sustainer", "Sustainer address is required")
		return
	}

	share, err := h.service.GetShare(id, sustainer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_share_failed", err.Error())
		return
	}
	if share == nil {
		writeError(w, http.StatusNotFound, "pool_not_found", "Pool not found")
		return
	}

	writeJSON(w, http.StatusOK, share)
}

// getOwnerPools handles GET /v1/owners/{owner}/pools
func (h *PoolHandler) getOwnerPools(w http.ResponseWriter, r *http.Request, owner string) {
	pools, err := h.service.GetOwnerPools(owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_pools_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"owner": owner,
		"pools": pools,
		"total": len(pools),
	})
}

// getActivePool handles GET /v1/owners/{owner}/active
func (h *PoolHandler) getActivePool(w http.ResponseWriter, r *http.Request, owner string) {
	pool, err := h.service.GetActivePool(owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_pool_failed", err.Error())
		return
	}
	if pool == nil {
		writeError(w, http.StatusNotFound, "no_active_pool", "Owner has no active pool")
		return
	}

	writeJSON(w, http.StatusOK, pool)
}

// getUpcomingPool handles GET /v1/owners/{owner}/upcoming
func (h *PoolHandler) getUpcomingPool(w http.ResponseWriter, r *http.Request, owner string) {
	pool, err := h.service.GetUpcomingPool(owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get_pool_failed", err.Error())
		return
	}
	if pool == nil {
		writeError(w, http.StatusNotFound, "no_upcoming_pool", "Owner has no upcoming pool")
		return
	}

	writeJSON(w, http.StatusOK, pool)
}

// Shared response helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, &types.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
