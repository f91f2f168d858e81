package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

// Generator renders the printable offer confirmation letter.
type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(letter model.OfferLetter) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, "Parking Space Offer", "", 1, "L", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Offer no %d, sent %s", letter.Offer.ID, formatDatePtr(letter.Offer.SentAt)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Applicant", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.MultiCell(0, 5, safeValue(letter.ApplicantName), "", "L", false)
	pdf.MultiCell(0, 5, safeValue(letter.ContactAddress), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Parking space", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	headers := []string{"Rental object", "Address", "District", "Rent / month", "Vacant from"}
	widths := []float64{32, 56, 32, 26, 26}
	drawTableRow(pdf, g.fontName, headers, widths, true)
	drawTableRow(pdf, g.fontName, []string{
		letter.Listing.RentalObjectCode,
		safeValue(letter.Listing.Address),
		safeValue(letter.Listing.DistrictCaption),
		fmt.Sprintf("%.2f", letter.Listing.MonthlyRent),
		formatDate(letter.Listing.VacantFrom),
	}, widths, false)

	pdf.Ln(6)
	pdf.SetFont(g.fontName, "", 11)
	pdf.MultiCell(0, 5, fmt.Sprintf(
		"Please answer the offer no later than %s. An unanswered offer expires and the parking space is offered to the next applicant in line.",
		formatDate(letter.Offer.ExpiresAt),
	), "", "L", false)

	if letter.Offer.Status != model.OfferStatusActive {
		pdf.Ln(4)
		pdf.SetFont(g.fontName, "B", 11)
		pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s (%s)", letter.Offer.Status, formatDatePtr(letter.Offer.AnsweredAt)), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i >= 3 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}
