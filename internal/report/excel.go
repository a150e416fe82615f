// Package report renders analytics results as downloadable spreadsheets.
package report

import (
	"fmt"
	"io"

	"nativore/internal/analytics"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of the workbooks produced here.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CityComparisonSheet names the single sheet of the city comparison workbook.
const CityComparisonSheet = "City Comparison"

var cityComparisonHeader = []any{
	"City", "Restaurants", "Avg Rating", "Avg Price (INR)", "Spending Index", "Top Cuisine",
}

// CityComparisonWorkbook builds a workbook with one row per city.
// The caller owns the returned file and must Close it.
func CityComparisonWorkbook(rows []analytics.CityStat) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", CityComparisonSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(CityComparisonSheet, "A1", &cityComparisonHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(CityComparisonSheet, "A1", "F1", bold); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		values := []any{r.City, r.TotalRestaurants, r.AvgRating, r.AvgPrice, r.SpendingIndex, r.TopCuisine}
		if err := f.SetSheetRow(CityComparisonSheet, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(CityComparisonSheet, "A", "F", 18); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("column width: %w", err)
	}
	return f, nil
}

// WriteCityComparison streams the city comparison workbook to w.
func WriteCityComparison(w io.Writer, rows []analytics.CityStat) error {
	f, err := CityComparisonWorkbook(rows)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
