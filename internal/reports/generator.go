// Package reports renders prescriptions and stock reports as PDF documents.
// Rendering never mutates the records it is given.
package reports

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lnmedico/lnmedico-backend/pkg/config"
	"github.com/lnmedico/lnmedico-backend/pkg/models"
)

// Branding is the clinic identity printed on every document.
type Branding struct {
	ClinicName  string
	Tagline     string
	ContactLine string
	Currency    string
}

// BrandingFromConfig fills blanks with the stock clinic identity.
func BrandingFromConfig(cfg config.ReportConfig) Branding {
	b := Branding{
		ClinicName:  cfg.ClinicName,
		Tagline:     cfg.Tagline,
		ContactLine: cfg.ContactLine,
		Currency:    cfg.Currency,
	}
	if b.ClinicName == "" {
		b.ClinicName = "LNMedico"
	}
	if b.Currency == "" {
		b.Currency = "Rs."
	}
	return b
}

// Generator produces PDF bytes for each document type.
type Generator struct {
	brand    Branding
	now      func() time.Time
	font     string
	compress bool
}

func NewGenerator(brand Branding, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{brand: brand, now: now, font: "Helvetica", compress: true}
}

var instructions = []string{
	"Take medicines as prescribed by the physician",
	"Complete the full course of antibiotics if prescribed",
	"Store medicines in a cool, dry place away from direct sunlight",
	"Keep medicines out of reach of children",
}

// Prescription renders the receipt for one dispensed prescription.
func (g *Generator) Prescription(patient models.Patient, rx models.Prescription) ([]byte, error) {
	d := g.newDocument("Prescription " + rx.ReceiptNo)
	d.header(g.brand.Tagline, g.brand.ContactLine)

	d.heading("PRESCRIPTION RECEIPT")
	d.infoGrid([][2]string{
		{"Receipt No:", rx.ReceiptNo},
		{"Date:", formatDateTime(rx.DispensedAt)},
		{"Patient Name:", patient.Name},
		{"Age:", strconv.Itoa(patient.Age)},
		{"Gender:", patient.Gender},
		{"Patient ID:", patient.ID},
	})

	d.heading("MEDICINES PRESCRIBED")
	cols := []column{
		{title: "S.No", width: 14, align: "C"},
		{title: "Medicine Name", width: 80, align: "L"},
		{title: "Quantity", width: 24, align: "C"},
		{title: "Unit Price (" + g.brand.Currency + ")", width: 32, align: "R"},
		{title: "Total (" + g.brand.Currency + ")", width: 32, align: "R"},
	}
	rows := make([][]string, 0, len(rx.Items))
	for i, item := range rx.Items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.MedicineName,
			strconv.Itoa(item.Quantity),
			g.brand.money(item.UnitPrice),
			g.brand.money(item.Total()),
		})
	}
	d.table(cols, rows, []string{"", "Grand Total:", strconv.Itoa(rx.Units()), "", g.brand.money(rx.Total())})

	d.heading("IMPORTANT INSTRUCTIONS")
	for _, line := range instructions {
		d.paragraph("- "+line, 9)
	}
	d.pdf.Ln(6)
	d.rule()
	d.centered("This is a computer-generated prescription receipt from "+g.brand.ClinicName, 8)
	if g.brand.ContactLine != "" {
		d.centered(g.brand.ContactLine, 8)
	}
	d.centered("Thank you for choosing "+g.brand.ClinicName+" Healthcare", 8)

	return d.bytes("prescription receipt")
}

// PatientHistory renders every prescription of one patient with totals.
func (g *Generator) PatientHistory(patient models.Patient) ([]byte, error) {
	d := g.newDocument("Patient history " + patient.Name)
	d.header("Patient Medical History")

	d.infoGrid([][2]string{
		{"Patient Name:", patient.Name},
		{"Age:", strconv.Itoa(patient.Age)},
		{"Gender:", patient.Gender},
		{"Report Date:", formatDate(g.now())},
	})

	d.heading("PRESCRIPTION HISTORY")
	if len(patient.Prescriptions) == 0 {
		d.paragraph("No prescriptions on record", 10)
		return d.bytes("patient history")
	}

	grand := decimal.Zero
	for i, rx := range patient.Prescriptions {
		d.heading("Prescription #" + strconv.Itoa(i+1) + " - " + rx.ReceiptNo + " - " + formatDateTime(rx.DispensedAt))
		d.table(itemColumns(g.brand), itemRows(g.brand, rx), []string{"Total", "", "", g.brand.money(rx.Total())})
		grand = grand.Add(rx.Total())
	}
	d.heading("Total across " + strconv.Itoa(len(patient.Prescriptions)) + " prescriptions: " + g.brand.money(grand))

	return d.bytes("patient history")
}

// Inventory renders the stock table with per-medicine value and status.
func (g *Generator) Inventory(medicines []models.Medicine) ([]byte, error) {
	d := g.newDocument("Medicine inventory report")
	d.header("Medicine Inventory Report", "Generated on: "+formatDateTime(g.now()))

	cols := []column{
		{title: "S.No", width: 12, align: "C"},
		{title: "Medicine Name", width: 66, align: "L"},
		{title: "Quantity", width: 20, align: "C"},
		{title: "Unit Price (" + g.brand.Currency + ")", width: 28, align: "R"},
		{title: "Stock Value (" + g.brand.Currency + ")", width: 30, align: "R"},
		{title: "Status", width: 26, align: "C"},
	}
	rows := make([][]string, 0, len(medicines))
	total := decimal.Zero
	low := 0
	for i, med := range medicines {
		status := "In Stock"
		if med.IsLowStock() {
			status = "Low Stock"
			low++
		}
		total = total.Add(med.StockValue())
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			med.Name,
			strconv.Itoa(med.Quantity),
			g.brand.money(med.Price),
			g.brand.money(med.StockValue()),
			status,
		})
	}
	d.table(cols, rows, []string{"", "", "", "Total Value:", g.brand.money(total), ""})

	d.heading("SUMMARY")
	d.infoGrid([][2]string{
		{"Medicines:", strconv.Itoa(len(medicines))},
		{"Low Stock:", strconv.Itoa(low)},
		{"Stock Value:", g.brand.money(total)},
		{"Threshold:", "below " + strconv.Itoa(models.DefaultLowStockThreshold) + " units"},
	})

	return d.bytes("inventory report")
}

// AllPatients renders a summary table followed by each patient's record.
func (g *Generator) AllPatients(patients []models.Patient) ([]byte, error) {
	d := g.newDocument("Patient database report")
	d.header("Complete Patient Database Report", "Generated on: "+formatDateTime(g.now()))

	if len(patients) == 0 {
		d.paragraph("No patients registered in the system.", 10)
		return d.bytes("patients report")
	}

	d.heading("PATIENT SUMMARY")
	cols := []column{
		{title: "S.No", width: 12, align: "C"},
		{title: "Patient Name", width: 60, align: "L"},
		{title: "Age", width: 16, align: "C"},
		{title: "Gender", width: 24, align: "C"},
		{title: "Prescriptions", width: 32, align: "C"},
		{title: "Total Spent (" + g.brand.Currency + ")", width: 38, align: "R"},
	}
	rows := make([][]string, 0, len(patients))
	grand := decimal.Zero
	count := 0
	for i, p := range patients {
		spent := patientTotal(p)
		grand = grand.Add(spent)
		count += len(p.Prescriptions)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			p.Name,
			strconv.Itoa(p.Age),
			p.Gender,
			strconv.Itoa(len(p.Prescriptions)),
			g.brand.money(spent),
		})
	}
	d.table(cols, rows, []string{"", "TOTAL", "", "", strconv.Itoa(count), g.brand.money(grand)})

	d.heading("DETAILED PATIENT RECORDS")
	for i, p := range patients {
		d.heading(strconv.Itoa(i+1) + ". " + p.Name)
		d.infoGrid([][2]string{
			{"Age:", strconv.Itoa(p.Age)},
			{"Gender:", p.Gender},
			{"Prescriptions:", strconv.Itoa(len(p.Prescriptions))},
			{"Patient ID:", p.ID},
		})
		if len(p.Prescriptions) == 0 {
			d.paragraph("No prescriptions on record", 9)
		}
		for n, rx := range p.Prescriptions {
			d.paragraph("Prescription #"+strconv.Itoa(n+1)+" on "+formatDateTime(rx.DispensedAt)+" - Total: "+g.brand.money(rx.Total()), 9)
			for _, item := range rx.Items {
				d.paragraph("    - "+item.MedicineName+": "+strconv.Itoa(item.Quantity)+" units @ "+g.brand.money(item.UnitPrice), 8.5)
			}
		}
		if i < len(patients)-1 {
			d.rule()
		}
	}

	d.pdf.Ln(6)
	d.centered(g.brand.ClinicName+" Healthcare Management System", 8)
	d.centered("Confidential Patient Database Report", 8)

	return d.bytes("patients report")
}

func itemColumns(b Branding) []column {
	return []column{
		{title: "Medicine Name", width: 92, align: "L"},
		{title: "Quantity", width: 26, align: "C"},
		{title: "Unit Price (" + b.Currency + ")", width: 32, align: "R"},
		{title: "Total (" + b.Currency + ")", width: 32, align: "R"},
	}
}

func itemRows(b Branding, rx models.Prescription) [][]string {
	rows := make([][]string, 0, len(rx.Items))
	for _, item := range rx.Items {
		rows = append(rows, []string{
			item.MedicineName,
			strconv.Itoa(item.Quantity),
			b.money(item.UnitPrice),
			b.money(item.Total()),
		})
	}
	return rows
}

func patientTotal(p models.Patient) decimal.Decimal {
	total := decimal.Zero
	for _, rx := range p.Prescriptions {
		total = total.Add(rx.Total())
	}
	return total
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
