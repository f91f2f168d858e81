package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

// Generator writes the ranked applicant list of a listing to a workbook, one
// row per applicant in ranking order.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(listing model.Listing, applicants []model.DetailedApplicant) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Applicants"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Rental object")
	set("B1", listing.RentalObjectCode)
	set("A2", "Address")
	set("B2", listing.Address)
	set("A3", "District")
	set("B3", listing.DistrictCaption)
	set("A4", "Published until")
	set("B4", formatDate(listing.PublishedTo))
	set("A5", "Applicants")
	set("B5", len(applicants))

	tableRow := 7
	headers := []string{
		"Rank",
		"Name",
		"Contact code",
		"Queue points",
		"Application date",
		"Application type",
		"Priority",
		"Status",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, applicant := range applicants {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), i+1)
		set(fmt.Sprintf("B%d", row), applicant.Name)
		set(fmt.Sprintf("C%d", row), applicant.ContactCode)
		set(fmt.Sprintf("D%d", row), applicant.QueuePoints)
		set(fmt.Sprintf("E%d", row), formatDate(applicant.ApplicationDate))
		set(fmt.Sprintf("F%d", row), string(applicant.ApplicationType))
		set(fmt.Sprintf("G%d", row), formatPriority(applicant.Priority))
		set(fmt.Sprintf("H%d", row), string(applicant.Status))
	}

	_ = file.SetColWidth(sheet, "A", "A", 8)
	_ = file.SetColWidth(sheet, "B", "B", 32)
	_ = file.SetColWidth(sheet, "C", "C", 16)
	_ = file.SetColWidth(sheet, "D", "H", 18)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatPriority(priority *int) string {
	if priority == nil {
		return ""
	}
	return fmt.Sprintf("%d", *priority)
}
