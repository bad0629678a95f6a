package report

import (
	"context"
	_ "embed"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"secondopinion/internal/model"
)

// InvoiceFooter closes every invoice, once, below the last patient row.
const InvoiceFooter = "This is an automatically generated invoice."

// Page geometry in points on a Letter page.
const (
	invoiceMargin       = 50.0
	invoiceRowHeight    = 20.0
	invoiceBottomMargin = 100.0
	invoiceFont         = "DejaVuSansCondensed"
	invoiceDateLayout   = "1/2/2006"
)

// Core PDF fonts only cover cp1252; patient names are arbitrary Unicode.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	invoiceFontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	invoiceFontBold []byte
)

type invoiceColumn struct {
	title string
	width float64
}

var invoiceColumns = []invoiceColumn{
	{"No.", 40},
	{"Patient Name", 150},
	{"Gender", 80},
	{"Contact Number", 120},
	{"Email", 120},
}

// tablePage is one page worth of the patient table: the header position and the rows below it.
type tablePage struct {
	headerY float64
	rows    []placedRow
}

type placedRow struct {
	index int
	y     float64
}

// paginate places n rows starting below a header drawn at firstHeaderY. Before each row, a cursor
// past pageHeight-invoiceBottomMargin starts a new page whose header is redrawn at the top
// margin, so every page opens with a header followed by at least one row.
func paginate(n int, firstHeaderY, pageHeight float64) []tablePage {
	pages := []tablePage{{headerY: firstHeaderY}}
	y := firstHeaderY + invoiceRowHeight
	limit := pageHeight - invoiceBottomMargin

	for i := 0; i < n; i++ {
		if y > limit {
			pages = append(pages, tablePage{headerY: invoiceMargin})
			y = invoiceMargin + invoiceRowHeight
		}
		cur := &pages[len(pages)-1]
		cur.rows = append(cur.rows, placedRow{index: i, y: y})
		y += invoiceRowHeight
	}
	return pages
}

// Invoice writes a PDF invoice listing the doctor's patients. It returns only after the
// document has been streamed to disk and the file closed; on failure the partial file stays.
func (r *Renderer) Invoice(ctx context.Context, doctor *model.Doctor, patients []model.Patient) (_ Artifact, err error) {
	ctx, span := r.startSpan(ctx, "report.Invoice", doctor, len(patients))
	defer func() { r.finish(span, kindInvoice, err) }()

	if doctor == nil {
		return Artifact{}, ErrDoctorRequired
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	dir := filepath.Join(r.cfg.BaseDir, InvoiceDir)
	if err := ensureDir(dir); err != nil {
		return Artifact{}, err
	}

	now := r.now()
	pdf := r.layoutInvoice(doctor, patients, now)
	if err := pdf.Error(); err != nil {
		return Artifact{}, err
	}

	name := InvoiceFilename(doctor.ID, now)
	path := filepath.Join(dir, name)
	if err := r.writeFile(path, pdf.Output); err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Path:        path,
		Filename:    name,
		ContentType: ContentTypePDF,
		Rows:        len(patients),
		Pages:       pdf.PageCount(),
	}, nil
}

// InvoiceAsync runs Invoice in its own goroutine. The returned channel yields exactly one
// Result and is then closed.
//
// It is the entry point for callers outside the HTTP request path, such as batch or
// scheduled billing jobs that fan out over many doctors and collect the results. Request
// handlers block on Invoice instead, so the artifact exists before the response is written.
func (r *Renderer) InvoiceAsync(ctx context.Context, doctor *model.Doctor, patients []model.Patient) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		a, err := r.Invoice(ctx, doctor, patients)
		ch <- Result{Artifact: a, Err: err}
	}()
	return ch
}

func (r *Renderer) layoutInvoice(doctor *model.Doctor, patients []model.Patient, now time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(r.cfg.Compress)
	pdf.SetMargins(invoiceMargin, invoiceMargin, invoiceMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("secondopinion", true)
	pdf.SetTitle("Invoice "+InvoiceNumber(now), true)
	pdf.SetCreationDate(now)
	pdf.AddUTF8FontFromBytes(invoiceFont, "", invoiceFontRegular)
	pdf.AddUTF8FontFromBytes(invoiceFont, "B", invoiceFontBold)

	pageWidth, pageHeight := pdf.GetPageSize()
	contentWidth := pageWidth - 2*invoiceMargin

	pdf.AddPage()
	y := invoiceMargin

	pdf.SetFont(invoiceFont, "B", 25)
	pdf.SetXY(invoiceMargin, y)
	pdf.CellFormat(contentWidth, 30, "INVOICE", "", 0, "C", false, 0, "")
	y += 50

	pdf.SetFont(invoiceFont, "", 12)
	for _, line := range []string{
		"Doctor: " + doctor.Name,
		"Specialty: " + doctor.Specialty,
		"Email: " + doctor.Email,
	} {
		pdf.SetXY(invoiceMargin, y)
		pdf.CellFormat(contentWidth, 16, line, "", 0, "L", false, 0, "")
		y += 16
	}
	y += 10

	for _, line := range []string{
		"Invoice Number: " + InvoiceNumber(now),
		"Date: " + now.Format(invoiceDateLayout),
	} {
		pdf.SetXY(invoiceMargin, y)
		pdf.CellFormat(contentWidth, 16, line, "", 0, "L", false, 0, "")
		y += 16
	}
	y += 20

	pdf.SetFont(invoiceFont, "U", 14)
	pdf.SetXY(invoiceMargin, y)
	pdf.CellFormat(contentWidth, 20, "Patient List", "", 0, "L", false, 0, "")
	y += 30

	pages := paginate(len(patients), y, pageHeight)
	lastY := y
	for i, page := range pages {
		if i > 0 {
			pdf.AddPage()
		}
		drawInvoiceHeader(pdf, page.headerY)
		pdf.SetFont(invoiceFont, "", 10)
		for _, row := range page.rows {
			p := patients[row.index]
			drawInvoiceRow(pdf, row.y, []string{
				strconv.Itoa(row.index + 1),
				p.Name,
				p.Gender,
				p.ContactNumber,
				p.Email,
			})
			lastY = row.y
		}
	}

	pdf.SetFont(invoiceFont, "", 10)
	pdf.SetXY(invoiceMargin, lastY+2*invoiceRowHeight)
	pdf.CellFormat(contentWidth, 14, InvoiceFooter, "", 0, "C", false, 0, "")

	return pdf
}

func drawInvoiceHeader(pdf *fpdf.Fpdf, y float64) {
	pdf.SetFont(invoiceFont, "B", 10)
	drawInvoiceRow(pdf, y, columnTitles())
	width := 0.0
	for _, c := range invoiceColumns {
		width += c.width
	}
	rule := y + invoiceRowHeight - 4
	pdf.Line(invoiceMargin, rule, invoiceMargin+width, rule)
}

func drawInvoiceRow(pdf *fpdf.Fpdf, y float64, values []string) {
	x := invoiceMargin
	for i, c := range invoiceColumns {
		pdf.SetXY(x, y)
		pdf.CellFormat(c.width, invoiceRowHeight-6, values[i], "", 0, "L", false, 0, "")
		x += c.width
	}
}

func columnTitles() []string {
	out := make([]string, len(invoiceColumns))
	for i, c := range invoiceColumns {
		out[i] = c.title
	}
	return out
}
