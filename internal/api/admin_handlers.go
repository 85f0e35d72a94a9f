package api

import (
	"fmt"
	"log"
	"net/http"

	"carrental/internal/db"
)

type AdminHandler struct {
	Export ExportService
	Jobs   JobRunner
}

func NewAdminHandler(export ExportService, jobs JobRunner) *AdminHandler {
	return &AdminHandler{Export: export, Jobs: jobs}
}

// ExportReservations streams an xlsx of the reservations overlapping
// ?start_date=&end_date=.
func (h *AdminHandler) ExportReservations(w http.ResponseWriter, r *http.Request) {
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

	f, err := h.Export.ExportReservations(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("reservations_%s_%s.xlsx", start, end)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		log.Printf("Error writing export %s: %v", filename, err)
	}
}

func (h *AdminHandler) RunJobs(w http.ResponseWriter, r *http.Request) {
	result, err := h.Jobs.RunAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
