package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/commands"
	"github.com/goliatone/go-cabinet-admin/components/reports"
)

// Handlers exposes net/http endpoints backed by the shared executor.
type Handlers struct {
	API     Executor
	Viewer  func(*http.Request) dashboard.ViewerContext
	Notices *dashboard.NoticeHub
}

// Mount registers the JSON mutation endpoints on mux, plus the notice
// streams when a hub is configured.
func (h *Handlers) Mount(mux *http.ServeMux, base string) {
	if h.Notices != nil {
		mux.HandleFunc("GET "+base+"/notices/stream", h.Notices.ServeSSE)
		mux.HandleFunc("GET "+base+"/notices/ws", h.Notices.ServeWebSocket)
	}
	mux.HandleFunc("POST "+base+"/reports", h.HandleSaveReport)
	mux.HandleFunc("POST "+base+"/accounts", h.HandleAddAccount)
	mux.HandleFunc("POST "+base+"/listings", h.HandleCreateListings)
	mux.HandleFunc("PUT "+base+"/listings/{cabinet}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleUpdateListing(w, r, r.PathValue("cabinet"))
	})
	mux.HandleFunc("DELETE "+base+"/listings/{cabinet}/{external}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleDeleteListing(w, r, r.PathValue("cabinet"), r.PathValue("external"))
	})
	mux.HandleFunc("POST "+base+"/listings/cities", h.HandleReplaceCities)
	mux.HandleFunc("POST "+base+"/listings/{cabinet}/images", func(w http.ResponseWriter, r *http.Request) {
		h.HandleUploadImages(w, r, r.PathValue("cabinet"))
	})
	mux.HandleFunc("POST "+base+"/theme", h.HandleSetTheme)
	mux.HandleFunc("POST "+base+"/comparison", h.HandleUpdateComparison)
}

func (h *Handlers) HandleSaveReport(w http.ResponseWriter, r *http.Request) {
	var cfg reports.Config
	if !decode(w, r, &cfg) {
		return
	}
	ref, err := h.API.SaveReport(r.Context(), cfg)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

func (h *Handlers) HandleAddAccount(w http.ResponseWriter, r *http.Request) {
	var payload dashboard.NewAccount
	if !decode(w, r, &payload) {
		return
	}
	if err := h.API.AddAccount(r.Context(), payload); err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (h *Handlers) HandleCreateListings(w http.ResponseWriter, r *http.Request) {
	var form dashboard.ListingForm
	if !decode(w, r, &form) {
		return
	}
	created, err := h.API.CreateListings(r.Context(), form)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"created": created})
}

func (h *Handlers) HandleUpdateListing(w http.ResponseWriter, r *http.Request, cabinetID string) {
	var payload commands.UpdateListingInput
	if !decode(w, r, &payload) {
		return
	}
	payload.CabinetID = cabinetID
	if err := h.API.UpdateListing(r.Context(), payload); err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handlers) HandleDeleteListing(w http.ResponseWriter, r *http.Request, cabinetID, externalID string) {
	input := commands.DeleteListingInput{CabinetID: cabinetID, ExternalID: externalID}
	if err := h.API.DeleteListing(r.Context(), input); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleReplaceCities(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Cabinet      string `json:"cabinet"`
		OldCities    string `json:"old_cities"`
		NewAddresses string `json:"new_addresses"`
	}
	if !decode(w, r, &payload) {
		return
	}
	form := dashboard.ParseCityReplace(payload.Cabinet, payload.OldCities, payload.NewAddresses)
	if err := h.API.ReplaceCities(r.Context(), form); err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "replaced"})
}

func (h *Handlers) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetThemeInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = h.viewer(r)
	if err := h.API.SetTheme(r.Context(), payload); err != nil {
		WriteError(w, err)
		return
	}
	selection, err := h.API.Theme(r.Context(), payload.Viewer)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selection)
}

func (h *Handlers) HandleUpdateComparison(w http.ResponseWriter, r *http.Request) {
	var payload commands.ComparisonInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Viewer = h.viewer(r)
	if err := h.API.UpdateComparison(r.Context(), payload); err != nil {
		WriteError(w, err)
		return
	}
	selected, err := h.API.Comparison(r.Context(), payload.Viewer)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selected)
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return dashboard.ViewerContext{UserID: r.Header.Get("X-User-ID")}
}

// WriteError writes err as a JSON ErrorBody with the mapped status.
func WriteError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), NewErrorBody(err))
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
