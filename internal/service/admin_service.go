package service

import (
	"context"
	"fmt"

	"carrental/internal/db"
	apperrors "carrental/internal/errors"
	"carrental/internal/repository"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Reservations"

var exportHeaders = []string{"ID", "Vehicle", "Plate", "User", "Start", "End", "Status", "Payment", "Created"}

type AdminService struct {
	repo repository.ExportStore
}

func NewAdminService(repo repository.ExportStore) *AdminService {
	return &AdminService{repo: repo}
}

// ExportReservations builds an xlsx workbook with every reservation that
// overlaps [start, end], whatever its status.
func (s *AdminService) ExportReservations(ctx context.Context, start, end db.Date) (*excelize.File, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.New(apperrors.KindValidation, "start_date and end_date are required")
	}
	if end.Before(start) {
		return nil, apperrors.ErrInvalidRange
	}
	rows, err := s.repo.ListReservationsInWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("error preparing sheet: %w", err)
	}
	if err := writeExportSheet(f, exportSheet, rows); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeExportSheet(f *excelize.File, sheet string, rows []repository.ReservationExportRow) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}
	headers := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("error styling header: %w", err)
	}

	for i, r := range rows {
		values := []interface{}{
			r.ID,
			r.VehicleName,
			r.PlateNumber,
			r.Username,
			r.StartDate.String(),
			r.EndDate.String(),
			string(r.Status),
			r.PaymentStatus,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "I", 16); err != nil {
		return fmt.Errorf("error sizing columns: %w", err)
	}
	return nil
}
