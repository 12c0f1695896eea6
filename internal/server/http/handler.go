package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/skyward-io/skyward/internal/aircraftdata"
	"github.com/skyward-io/skyward/internal/core"
	"github.com/skyward-io/skyward/internal/core/service"
	"github.com/skyward-io/skyward/internal/server/wire"
	"github.com/skyward-io/skyward/pkg/log"
)

type handler struct {
	svc   *service.Service
	table *aircraftdata.Table
}

// apiKey extracts the caller's key from the query string or the
// X-API-Key header. The query form matches what simulator plugins can
// most easily send.
func apiKey(r *http.Request) string {
	if k := r.URL.Query().Get("apikey"); k != "" {
		return k
	}
	return r.Header.Get("X-API-Key")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error(err, "failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, wire.ErrorResponse{Error: msg})
}

// errorStatus maps core errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrMalformedSample):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNoActiveFlight):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAircraftBusy):
		return http.StatusConflict
	case errors.Is(err, core.ErrExternalWrite):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) postTelemetry(w http.ResponseWriter, r *http.Request) {
	key := apiKey(r)
	if key == "" {
		writeError(w, http.StatusUnauthorized, "missing api key")
		return
	}

	var req wire.TelemetryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Undecodable body: no contact is recorded, the request never
		// identified a usable sample.
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	sample, err := req.ToSample()
	if err != nil {
		// Parseable but unusable still counts as contact so the
		// connectivity badge sees the client.
		if cErr := h.svc.RecordContact(r.Context(), key); cErr != nil {
			writeError(w, errorStatus(cErr), cErr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.SubmitSample(r.Context(), key, sample)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, wire.TelemetryResponse{Accepted: !result.Stale, Result: result})
}

func (h *handler) postDispatch(w http.ResponseWriter, r *http.Request) {
	var req service.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.CompanyID == "" || req.AircraftID == "" {
		writeError(w, http.StatusBadRequest, "company_id and aircraft_id are required")
		return
	}

	sess, err := h.svc.DispatchFlight(r.Context(), req)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *handler) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.Sessions(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Session(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *handler) postSettle(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Settle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// getAircraftPerformance resolves a type code against the speed table.
// With ?distance_nm= it also computes the contract deadline for a leg
// of that length.
func (h *handler) getAircraftPerformance(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(mux.Vars(r)["code"])
	if code == "" {
		writeError(w, http.StatusBadRequest, "aircraft type code is required")
		return
	}

	category := aircraftdata.Category(r.URL.Query().Get("category"))
	kt := h.table.CruiseSpeedKt(code, category)

	resp := wire.AircraftPerformanceResponse{
		TypeCode:      strings.ToUpper(code),
		CruiseSpeedKt: kt,
	}

	if raw := r.URL.Query().Get("distance_nm"); raw != "" {
		nm, err := strconv.ParseFloat(raw, 64)
		if err != nil || nm < 0 {
			writeError(w, http.StatusBadRequest, "distance_nm must be a non-negative number")
			return
		}
		deadline := aircraftdata.DeadlineMinutes(nm, kt)
		resp.DistanceNM = &nm
		resp.DeadlineMinutes = &deadline
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) listConnections(w http.ResponseWriter, r *http.Request) {
	states, err := h.svc.Connections(r.Context())
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (h *handler) getConnection(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.Connection(r.Context(), mux.Vars(r)["companyID"])
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}
