package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"furrymatch-backend/internal/domains/owner/model"
	"furrymatch-backend/internal/shared/pagination"
)

const (
	MaxExportRows   = 1000
	exportSheetName = "Owners"
)

var exportHeaders = []string{"ID", "First Name", "Last Name", "Email", "Telephone", "City", "Description", "User ID"}

// ExportToExcel builds a workbook with one row per owner, ordered by id,
// capped at MaxExportRows.
func (s *OwnerService) ExportToExcel(ctx context.Context) (*excelize.File, int, error) {
	page := pagination.Pageable{
		Page: 0,
		Size: MaxExportRows,
		Sort: []pagination.Order{{Property: "id", Direction: pagination.Asc}},
	}

	owners, _, err := s.repo.FindAll(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list owners: %w", err)
	}

	f, err := buildOwnersExcelFile(owners)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, len(owners), nil
}

func buildOwnersExcelFile(owners []*model.Owner) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheetName, "A1", last, headerStyle)
	}

	for i, o := range owners {
		row := []interface{}{
			deref(o.ID), deref(o.FirstName), deref(o.LastName), deref(o.Email),
			deref(o.Telephone), deref(o.City), deref(o.Description), deref(o.UserID),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// deref turns a nil pointer into an empty cell.
func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
