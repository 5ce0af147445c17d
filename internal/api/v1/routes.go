// Package v1 provides the REST handlers that drive a headless map session.
package v1

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arenarium/mapmarkers/internal/api/common"
	"github.com/arenarium/mapmarkers/internal/coordinator"
	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/engine/headless"
	"github.com/arenarium/mapmarkers/internal/geo"
)

// MapSurface is the engine side of a session that the API can drive directly
type MapSurface interface {
	SetViewport(b geo.Bounds) error
	ClickTooltip(ctx context.Context, id string) error
	ClickBackground(ctx context.Context)
	Commands() []engine.Command
	ResetCommands()
	Snapshot() headless.Snapshot
	Settle(ctx context.Context) error
}

// Routes defines the routes for the marker API
type Routes struct {
	coordinator coordinator.Coordinator
	surface     MapSurface
}

// NewRoutes creates a new Routes instance
func NewRoutes(coord coordinator.Coordinator, surface MapSurface) *Routes {
	return &Routes{
		coordinator: coord,
		surface:     surface,
	}
}

// Router creates a new router for the marker API
func Router(coord coordinator.Coordinator, surface MapSurface) http.Handler {
	routes := NewRoutes(coord, surface)

	r := chi.NewRouter()

	r.Route("/markers", func(r chi.Router) {
		r.Get("/", routes.listMarkers)
		r.Delete("/", routes.removeMarkers)
		r.Post("/update", routes.updateMarkers)
		r.Get("/{id}", routes.getMarker)
		r.Post("/{id}/tooltip/click", routes.clickTooltip)
	})

	r.Post("/map/click", routes.clickBackground)
	r.Get("/map", routes.getMap)
	r.Put("/viewport", routes.setViewport)
	r.Get("/selection", routes.getSelection)
	r.Get("/commands", routes.listCommands)
	r.Delete("/commands", routes.resetCommands)

	return r
}

// listMarkers handles GET /v1/markers
//
// @Summary		List markers
// @Description	Get the current generation and its markers in rank order
// @Tags			markers
// @Produce		json
// @Success		200	{object}	MarkerListResponse
// @Router			/v1/markers [get]
func (rr *Routes) listMarkers(w http.ResponseWriter, _ *http.Request) {
	gen, markers := rr.coordinator.Markers()
	common.WriteJSONResponse(w, newMarkerListResponse(gen, markers), http.StatusOK)
}

// getMarker handles GET /v1/markers/{id}
//
// @Summary		Get a marker
// @Description	Get one marker of the current generation
// @Tags			markers
// @Produce		json
// @Param			id	path		string	true	"Marker ID"
// @Success		200	{object}	MarkerDetailResponse
// @Failure		400	{object}	common.ErrorResponse
// @Failure		404	{object}	common.ErrorResponse
// @Router			/v1/markers/{id} [get]
func (rr *Routes) getMarker(w http.ResponseWriter, r *http.Request) {
	id, err := common.MarkerIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, gen, err := rr.coordinator.Marker(id)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), common.StatusForError(err))
		return
	}

	common.WriteJSONResponse(w, MarkerDetailResponse{Generation: gen, MarkerResponse: newMarkerResponse(m)}, http.StatusOK)
}

// updateMarkers handles POST /v1/markers/update
//
// @Summary		Trigger update
// @Description	Sample markers for the current viewport and render them. With settle=true the
// @Description	response is sent once every slot body has been pulled.
// @Tags			markers
// @Produce		json
// @Param			settle	query		bool	false	"Wait for body resolution"
// @Success		200		{object}	coordinator.Result
// @Failure		500		{object}	common.ErrorResponse
// @Router			/v1/markers/update [post]
func (rr *Routes) updateMarkers(w http.ResponseWriter, r *http.Request) {
	settle, err := settleRequested(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := rr.coordinator.TriggerUpdate(r.Context())
	if err != nil {
		slog.Error("Failed to update markers", "error", err)
		common.WriteErrorResponse(w, "Failed to update markers", common.StatusForError(err))
		return
	}

	if settle && !rr.settle(w, r) {
		return
	}

	common.WriteJSONResponse(w, result, http.StatusOK)
}

// removeMarkers handles DELETE /v1/markers
//
// @Summary		Trigger remove
// @Description	Remove every marker and hide the popup
// @Tags			markers
// @Produce		json
// @Success		200	{object}	coordinator.Result
// @Failure		500	{object}	common.ErrorResponse
// @Router			/v1/markers [delete]
func (rr *Routes) removeMarkers(w http.ResponseWriter, r *http.Request) {
	result, err := rr.coordinator.TriggerRemove(r.Context())
	if err != nil {
		slog.Error("Failed to remove markers", "error", err)
		common.WriteErrorResponse(w, "Failed to remove markers", common.StatusForError(err))
		return
	}

	common.WriteJSONResponse(w, result, http.StatusOK)
}

// clickTooltip handles POST /v1/markers/{id}/tooltip/click
//
// @Summary		Click a tooltip
// @Description	Click the tooltip of a drawn marker, showing its popup
// @Tags			interaction
// @Produce		json
// @Param			id	path		string	true	"Marker ID"
// @Success		200	{object}	SelectionResponse
// @Failure		400	{object}	common.ErrorResponse
// @Failure		404	{object}	common.ErrorResponse
// @Failure		409	{object}	common.ErrorResponse
// @Router			/v1/markers/{id}/tooltip/click [post]
func (rr *Routes) clickTooltip(w http.ResponseWriter, r *http.Request) {
	id, err := common.MarkerIDParam(r, "id")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := rr.surface.ClickTooltip(r.Context(), id); err != nil {
		status := common.StatusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("Failed to click tooltip", "marker_id", id, "error", err)
		}
		common.WriteErrorResponse(w, err.Error(), status)
		return
	}

	common.WriteJSONResponse(w, newSelectionResponse(rr.coordinator.Selection()), http.StatusOK)
}

// clickBackground handles POST /v1/map/click
//
// @Summary		Click the map background
// @Description	Click an empty part of the map, hiding any popup
// @Tags			interaction
// @Produce		json
// @Success		200	{object}	SelectionResponse
// @Router			/v1/map/click [post]
func (rr *Routes) clickBackground(w http.ResponseWriter, r *http.Request) {
	rr.surface.ClickBackground(r.Context())
	common.WriteJSONResponse(w, newSelectionResponse(rr.coordinator.Selection()), http.StatusOK)
}

// getMap handles GET /v1/map
//
// @Summary		Get the drawn map
// @Description	Get the viewport, the drawn markers with their resolved labels and the open popup
// @Tags			interaction
// @Produce		json
// @Param			settle	query		bool	false	"Wait for body resolution"
// @Success		200		{object}	MapResponse
// @Router			/v1/map [get]
func (rr *Routes) getMap(w http.ResponseWriter, r *http.Request) {
	settle, err := settleRequested(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if settle && !rr.settle(w, r) {
		return
	}
	common.WriteJSONResponse(w, rr.surface.Snapshot(), http.StatusOK)
}

// setViewport handles PUT /v1/viewport
//
// @Summary		Move the viewport
// @Description	Set the visible bounds used by the next update. Drawn markers are kept.
// @Tags			interaction
// @Accept			json
// @Produce		json
// @Param			bounds	body		geo.Bounds	true	"Viewport bounds"
// @Success		200		{object}	geo.Bounds
// @Failure		400		{object}	common.ErrorResponse
// @Router			/v1/viewport [put]
func (rr *Routes) setViewport(w http.ResponseWriter, r *http.Request) {
	var bounds geo.Bounds
	if err := common.DecodeJSONBody(r, &bounds); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := rr.surface.SetViewport(bounds); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	common.WriteJSONResponse(w, bounds, http.StatusOK)
}

// getSelection handles GET /v1/selection
//
// @Summary		Get the selection
// @Tags			interaction
// @Produce		json
// @Success		200	{object}	SelectionResponse
// @Router			/v1/selection [get]
func (rr *Routes) getSelection(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, newSelectionResponse(rr.coordinator.Selection()), http.StatusOK)
}

// listCommands handles GET /v1/commands
//
// @Summary		List engine commands
// @Description	Get the calls issued to the map engine, oldest first
// @Tags			debug
// @Produce		json
// @Success		200	{object}	CommandListResponse
// @Router			/v1/commands [get]
func (rr *Routes) listCommands(w http.ResponseWriter, _ *http.Request) {
	commands := rr.surface.Commands()
	if commands == nil {
		commands = []engine.Command{}
	}
	common.WriteJSONResponse(w, CommandListResponse{Commands: commands}, http.StatusOK)
}

// resetCommands handles DELETE /v1/commands
func (rr *Routes) resetCommands(w http.ResponseWriter, _ *http.Request) {
	rr.surface.ResetCommands()
	w.WriteHeader(http.StatusNoContent)
}

// settleRequested parses the optional settle query parameter
func settleRequested(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("settle")
	if raw == "" {
		return false, nil
	}
	settle, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("settle must be a boolean")
	}
	return settle, nil
}

// settle waits for pending body pulls. It reports false after writing an error response.
func (rr *Routes) settle(w http.ResponseWriter, r *http.Request) bool {
	if err := rr.surface.Settle(r.Context()); err != nil {
		common.WriteErrorResponse(w, "Failed to settle map", common.StatusForError(err))
		return false
	}
	return true
}
