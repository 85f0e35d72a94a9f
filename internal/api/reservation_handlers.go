package api

import (
	"net/http"

	"carrental/internal/entities"
)

type ReservationHandler struct {
	Service  ReservationService
	Checkout CheckoutService
}

// NewReservationHandler accepts a nil checkout service; checkout then answers 503.
func NewReservationHandler(svc ReservationService, checkout CheckoutService) *ReservationHandler {
	return &ReservationHandler{Service: svc, Checkout: checkout}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Service.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewReservationResponses(reservations))
}

func (h *ReservationHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req entities.SearchReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reservations, err := h.Service.Search(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewReservationResponses(reservations))
}

func (h *ReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.IsVehicleAvailableRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	available, err := h.Service.IsVehicleAvailable(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.AvailabilityResponse{Available: available})
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewReservationResponse(*res))
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entities.AddReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entities.NewReservationResponse(*res))
}

// Update takes the reservation id from the path when present, otherwise
// from the body's reservation_id.
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req entities.UpdateReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, hasID := muxVar(r, "id"); hasID {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		req.ReservationID = id
	}
	res, err := h.Service.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewReservationResponse(*res))
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		writeJSON(w, http.StatusNotFound, entities.ErrorResponse{Error: "Reservation not found", Kind: "not_found", Code: http.StatusNotFound})
		return
	}
	writeJSON(w, http.StatusOK, entities.MessageResponse{Message: "Reservation deleted successfully"})
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Service.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewReservationResponse(*res))
}

func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Service.Confirm(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewReservationResponse(*res))
}

func (h *ReservationHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	if h.Checkout == nil {
		writeJSON(w, http.StatusServiceUnavailable, entities.ErrorResponse{Error: "Payments are not configured", Code: http.StatusServiceUnavailable})
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	resp, err := h.Checkout.CreateCheckout(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
