package api

import (
	"net/http"

	"carrental/internal/db"
	"carrental/internal/entities"
)

type VehicleHandler struct {
	Service VehicleService
}

func NewVehicleHandler(svc VehicleService) *VehicleHandler {
	return &VehicleHandler{Service: svc}
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Service.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewVehicleResponses(vehicles))
}

// SearchAvailable serves GET /api/vehicles/search?start_date=&end_date=&location=.
func (h *VehicleHandler) SearchAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := db.ParseDate(q.Get("start_date"))
	if err != nil {
		writeBadRequest(w, "start_date: "+err.Error())
		return
	}
	end, err := db.ParseDate(q.Get("end_date"))
	if err != nil {
		writeBadRequest(w, "end_date: "+err.Error())
		return
	}
	vehicles, err := h.Service.SearchAvailable(r.Context(), start, end, q.Get("location"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewVehicleResponses(vehicles))
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewVehicleResponse(*v))
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateVehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entities.NewVehicleResponse(*v))
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req entities.UpdateVehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewVehicleResponse(*v))
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, entities.ErrorResponse{Error: "Vehicle not found", Kind: "not_found", Code: http.StatusNotFound})
		return
	}
	writeJSON(w, http.StatusOK, entities.MessageResponse{Message: "Vehicle deleted successfully"})
}
