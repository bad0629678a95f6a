package report

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"secondopinion/internal/model"
)

// RosterSheet is the only sheet of the roster workbook.
const RosterSheet = "Patient List"

// RosterHeader is the column header row of the roster.
var RosterHeader = []string{"No.", "Patient Name", "Gender", "Contact Number", "Email"}

const (
	rosterColumnWidth = 20
	rosterTitleSize   = 16
	rosterHeaderFill  = "D3D3D3"
)

// RosterTitle is the merged title cell text. The doctor's name is used as stored, so a
// name already starting with "Dr." reads "Dr. Dr. ...".
func RosterTitle(d *model.Doctor) string {
	return fmt.Sprintf("Patient List for Dr. %s (%s)", d.Name, d.Specialty)
}

// PatientRoster writes the patient list of doctor to a new workbook and returns its location.
// An empty patient list yields a title and header only.
func (r *Renderer) PatientRoster(ctx context.Context, doctor *model.Doctor, patients []model.Patient) (_ Artifact, err error) {
	ctx, span := r.startSpan(ctx, "report.PatientRoster", doctor, len(patients))
	defer func() { r.finish(span, kindRoster, err) }()

	if doctor == nil {
		return Artifact{}, ErrDoctorRequired
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	dir := filepath.Join(r.cfg.BaseDir, RosterDir)
	if err := ensureDir(dir); err != nil {
		return Artifact{}, err
	}

	f, err := buildRoster(doctor, patients)
	if err != nil {
		return Artifact{}, err
	}
	defer f.Close()

	name := RosterFilename(doctor.ID, r.now())
	path := filepath.Join(dir, name)
	if err := r.writeFile(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	}); err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Path:        path,
		Filename:    name,
		ContentType: ContentTypeXLSX,
		Rows:        len(patients),
		Pages:       1,
	}, nil
}

func buildRoster(doctor *model.Doctor, patients []model.Patient) (*excelize.File, error) {
	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			_ = f.Close()
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), RosterSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newRosterStyles(f)
	if err != nil {
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(RosterHeader))

	// Title
	if err := f.MergeCell(RosterSheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	if err := f.SetCellValue(RosterSheet, "A1", RosterTitle(doctor)); err != nil {
		return nil, fmt.Errorf("set title: %w", err)
	}
	if err := f.SetCellStyle(RosterSheet, "A1", lastCol+"1", styles.title); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}

	header := make([]any, len(RosterHeader))
	for i, h := range RosterHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(RosterSheet, "A2", &header); err != nil {
		return nil, fmt.Errorf("set header: %w", err)
	}
	if err := f.SetCellStyle(RosterSheet, "A2", lastCol+"2", styles.header); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, p := range patients {
		row := i + 3
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(RosterHeader), row)
		values := []any{i + 1, p.Name, p.Gender, p.ContactNumber, p.Email}
		if err := f.SetSheetRow(RosterSheet, start, &values); err != nil {
			return nil, fmt.Errorf("set row %d: %w", row, err)
		}
		if err := f.SetCellStyle(RosterSheet, start, end, styles.cell); err != nil {
			return nil, fmt.Errorf("style row %d: %w", row, err)
		}
	}

	if err := f.SetColWidth(RosterSheet, "A", lastCol, rosterColumnWidth); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	ok = true
	return f, nil
}

type rosterStyles struct {
	title, header, cell int
}

func newRosterStyles(f *excelize.File) (rosterStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	var s rosterStyles
	var err error
	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: rosterTitleSize},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("title style: %w", err)
	}
	s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{rosterHeaderFill}},
		Border: border,
	})
	if err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	s.cell, err = f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return s, fmt.Errorf("cell style: %w", err)
	}
	return s, nil
}
