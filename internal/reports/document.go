package reports

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
)

const (
	pageMargin  = 14.0
	usableWidth = 210.0 - 2*pageMargin
	rowHeight   = 7.0
)

type rgb struct{ r, g, b int }

var (
	colorPrimary = rgb{33, 128, 141}
	colorInk     = rgb{31, 78, 95}
	colorMuted   = rgb{98, 108, 113}
	colorTint    = rgb{232, 244, 248}
	colorRow     = rgb{245, 245, 220}
	colorWhite   = rgb{255, 255, 255}
)

type column struct {
	title string
	width float64
	align string
}

// document wraps one fpdf page flow with the shared clinic look.
type document struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	font  string
	brand Branding
}

func (g *Generator) newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, 18, pageMargin)
	pdf.SetAutoPageBreak(true, 16)
	pdf.SetCompression(g.compress)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(g.brand.ClinicName, true)
	pdf.SetCreator(g.brand.ClinicName, true)
	pdf.SetCreationDate(g.now())
	pdf.AliasNbPages("")

	d := &document{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		font:  g.font,
		brand: g.brand,
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		d.setFont("", 7, colorMuted)
		pdf.CellFormat(0, 5, d.tr(g.brand.ClinicName+" | Page "+itoa(pdf.PageNo())+" of {nb}"), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	return d
}

func (d *document) setFont(style string, size float64, c rgb) {
	d.pdf.SetFont(d.font, style, size)
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

// header prints the clinic banner followed by the document subtitle lines.
func (d *document) header(subtitles ...string) {
	d.setFont("B", 22, colorInk)
	d.pdf.CellFormat(0, 11, d.tr(d.brand.ClinicName), "", 1, "C", false, 0, "")
	d.setFont("", 10, colorMuted)
	for _, line := range subtitles {
		if line == "" {
			continue
		}
		d.pdf.CellFormat(0, 6, d.tr(line), "", 1, "C", false, 0, "")
	}
	d.pdf.SetDrawColor(colorPrimary.r, colorPrimary.g, colorPrimary.b)
	y := d.pdf.GetY() + 2
	d.pdf.Line(pageMargin, y, pageMargin+usableWidth, y)
	d.pdf.Ln(6)
}

func (d *document) heading(text string) {
	d.pdf.Ln(2)
	d.setFont("B", 12, colorInk)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
}

func (d *document) paragraph(text string, size float64) {
	d.setFont("", size, colorMuted)
	d.pdf.MultiCell(0, 5, d.tr(text), "", "L", false)
}

func (d *document) centered(text string, size float64) {
	d.setFont("", size, colorMuted)
	d.pdf.CellFormat(0, 4.5, d.tr(text), "", 1, "C", false, 0, "")
}

// infoGrid renders label/value pairs two per row.
func (d *document) infoGrid(pairs [][2]string) {
	widths := []float64{32, 59, 32, 59}
	d.pdf.SetDrawColor(192, 232, 245)
	for i := 0; i < len(pairs); i += 2 {
		for j := 0; j < 2; j++ {
			if i+j >= len(pairs) {
				d.pdf.CellFormat(widths[2*j]+widths[2*j+1], rowHeight, "", "1", 0, "L", false, 0, "")
				continue
			}
			pair := pairs[i+j]
			d.pdf.SetFillColor(colorTint.r, colorTint.g, colorTint.b)
			d.setFont("B", 9, colorInk)
			d.pdf.CellFormat(widths[2*j], rowHeight, d.tr(pair[0]), "1", 0, "L", true, 0, "")
			d.setFont("", 9, colorInk)
			d.pdf.CellFormat(widths[2*j+1], rowHeight, d.tr(pair[1]), "1", 0, "L", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(4)
}

// table draws a header row, body rows and an optional highlighted total row.
func (d *document) table(cols []column, rows [][]string, total []string) {
	d.pdf.SetDrawColor(colorPrimary.r, colorPrimary.g, colorPrimary.b)
	d.pdf.SetFillColor(colorPrimary.r, colorPrimary.g, colorPrimary.b)
	d.setFont("B", 9, colorWhite)
	for _, c := range cols {
		d.pdf.CellFormat(c.width, rowHeight+1, d.tr(c.title), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFillColor(colorRow.r, colorRow.g, colorRow.b)
	d.setFont("", 8.5, colorInk)
	for _, row := range rows {
		for i, c := range cols {
			d.pdf.CellFormat(c.width, rowHeight, d.tr(cell(row, i)), "1", 0, c.align, true, 0, "")
		}
		d.pdf.Ln(-1)
	}

	if total != nil {
		d.pdf.SetFillColor(colorTint.r, colorTint.g, colorTint.b)
		d.setFont("B", 9.5, colorInk)
		for i, c := range cols {
			d.pdf.CellFormat(c.width, rowHeight+1, d.tr(cell(total, i)), "1", 0, c.align, true, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(4)
}

func (d *document) rule() {
	d.pdf.SetDrawColor(colorMuted.r, colorMuted.g, colorMuted.b)
	y := d.pdf.GetY() + 1
	d.pdf.Line(pageMargin, y, pageMargin+usableWidth, y)
	d.pdf.Ln(4)
}

// bytes finalizes the document; any drawing error collected along the way
// surfaces here.
func (d *document) bytes(name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRender, err, "failed to render "+name)
	}
	return buf.Bytes(), nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func (b Branding) money(v decimal.Decimal) string {
	return b.Currency + " " + v.StringFixed(2)
}

func formatDateTime(t time.Time) string {
	return t.Format("02/01/2006 03:04 PM")
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
