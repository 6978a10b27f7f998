package importer

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/maple-advisory/crm-backend/internal/types"
)

// buildWorkbook writes rows into the first sheet of an in-memory workbook and
// returns it base64 encoded, the way uploads arrive over the API.
func buildWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestParseBase64ReadsFirstSheet(t *testing.T) {
	payload := buildWorkbook(t, [][]string{
		{"Fund Name", "Email 1"},
		{"Banyan Growth Partners", "devika@banyan.in"},
		{"", ""},
		{"Cedar Capital", "arjun@cedar.in"},
	})

	sheet, err := ParseBase64(payload)
	if err != nil {
		t.Fatalf("ParseBase64 failed: %v", err)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 data rows after dropping the blank one, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0].Fields["Fund Name"] != "Banyan Growth Partners" {
		t.Fatalf("unexpected first row: %v", sheet.Rows[0])
	}
	if sheet.Rows[1].Fields["Email 1"] != "arjun@cedar.in" {
		t.Fatalf("unexpected second row: %v", sheet.Rows[1])
	}
	// The blank row 3 is dropped but row 4 keeps its spreadsheet position.
	if sheet.Rows[0].Number != 2 || sheet.Rows[1].Number != 4 {
		t.Fatalf("unexpected row numbers: %d, %d", sheet.Rows[0].Number, sheet.Rows[1].Number)
	}
}

func TestParseBase64RejectsGarbage(t *testing.T) {
	if _, err := ParseBase64("not base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := ParseBase64(base64.StdEncoding.EncodeToString([]byte("plain text"))); err == nil {
		t.Fatal("expected error for a non-spreadsheet payload")
	}
}

func TestParseBase64RequiresDataRows(t *testing.T) {
	payload := buildWorkbook(t, [][]string{{"Fund Name", "Email 1"}})
	if _, err := ParseBase64(payload); err != ErrNoDataRows {
		t.Fatalf("expected ErrNoDataRows, got %v", err)
	}
}

func TestBuildFundTrackerRowsMapsHeaderSynonyms(t *testing.T) {
	rows := []Row{{Number: 2, Fields: map[string]string{
		"Fund":            "Banyan Growth Partners",
		"Primary Contact": "Devika Rao",
		"Title 1":         "Partner",
		"Primary Email":   "devika@banyan.in",
		"Investment Stage": types.StageEarly + "; " + types.StageLate,
		"Type":             types.FundPEVC,
		"Remarks":          "warm intro",
	}}}

	valid, rowErrors := BuildFundTrackerRows(rows)
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	if len(valid) != 1 {
		t.Fatalf("expected 1 valid row, got %d", len(valid))
	}

	row := valid[0]
	if row.FundName != "Banyan Growth Partners" || row.ContactPerson1 != "Devika Rao" {
		t.Fatalf("synonym mapping failed: %+v", row)
	}
	if row.FundType != types.FundPEVC {
		t.Fatalf("expected fund type %q, got %q", types.FundPEVC, row.FundType)
	}
	if len(row.Stages) != 2 || row.Stages[0] != types.StageEarly || row.Stages[1] != types.StageLate {
		t.Fatalf("unexpected stages %v", row.Stages)
	}
	if row.Notes != "warm intro" {
		t.Fatalf("expected remarks to map to notes, got %q", row.Notes)
	}
}

func TestBuildFundTrackerRowsReportsSpreadsheetRowNumbers(t *testing.T) {
	rows := []Row{
		{Number: 2, Fields: map[string]string{"Fund Name": "Banyan Growth Partners", "Contact 1": "Devika Rao", "Designation 1": "Partner", "Email 1": "devika@banyan.in"}},
		{Number: 3, Fields: map[string]string{"Fund Name": "", "Contact 1": "Nobody", "Designation 1": "Analyst", "Email 1": "nobody@fund.in"}},
		{Number: 4, Fields: map[string]string{"Fund Name": "Cedar Capital", "Contact 1": "Arjun Bhatt", "Designation 1": "Principal", "Email 1": "not-an-email"}},
	}

	valid, rowErrors := BuildFundTrackerRows(rows)
	if len(valid) != 1 {
		t.Fatalf("expected 1 valid row, got %d", len(valid))
	}
	if len(rowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(rowErrors))
	}
	// The first data row of a spreadsheet is row 2.
	if rowErrors[0].Row != 3 || rowErrors[1].Row != 4 {
		t.Fatalf("unexpected row numbers: %d, %d", rowErrors[0].Row, rowErrors[1].Row)
	}
	if rowErrors[0].Errors[0] != "Fund Name is required" {
		t.Fatalf("unexpected error text %q", rowErrors[0].Errors[0])
	}
}

func TestRowErrorsKeepPositionsPastBlankRows(t *testing.T) {
	payload := buildWorkbook(t, [][]string{
		{"Fund Name", "Contact 1", "Designation 1", "Email 1"},
		{"Banyan Growth Partners", "Devika Rao", "Partner", "devika@banyan.in"},
		{"", "", "", ""},
		{"", "Nobody", "Analyst", "nobody@fund.in"},
	})

	sheet, err := ParseBase64(payload)
	if err != nil {
		t.Fatalf("ParseBase64 failed: %v", err)
	}

	valid, rowErrors := BuildFundTrackerRows(sheet.Rows)
	if len(valid) != 1 {
		t.Fatalf("expected 1 valid row, got %d", len(valid))
	}
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(rowErrors))
	}
	// The invalid row sits at spreadsheet row 4; the blank row 3 above it
	// must not shift the reported position.
	if rowErrors[0].Row != 4 {
		t.Fatalf("expected row 4, got %d", rowErrors[0].Row)
	}
}

func TestBuildFundTrackerRowsDropsUnknownEnumValues(t *testing.T) {
	rows := []Row{{Number: 2, Fields: map[string]string{
		"Fund Name":     "Banyan Growth Partners",
		"Contact 1":     "Devika Rao",
		"Designation 1": "Partner",
		"Email 1":       "devika@banyan.in",
		"Type":          "Hedge Fund",
		"Stages":        "Early, Growth, Late",
		"Source":        "LinkedIn",
	}}}

	valid, rowErrors := BuildFundTrackerRows(rows)
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrors)
	}
	row := valid[0]
	if row.FundType != "" {
		t.Fatalf("unknown fund type should be dropped, got %q", row.FundType)
	}
	if row.Source != "" {
		t.Fatalf("unknown source should be dropped, got %q", row.Source)
	}
	if len(row.Stages) != 2 {
		t.Fatalf("expected only allowlisted stages, got %v", row.Stages)
	}
}

func TestBuildMasterDataRowsValidation(t *testing.T) {
	rows := []Row{
		{Number: 2, Fields: map[string]string{"Full Name": "Nisha Shetty", "Organisation": "Surya Renewables", "Email ID": "nisha@surya.in"}},
		{Number: 3, Fields: map[string]string{"Full Name": "", "Organisation": "Nameless Co"}},
		{Number: 4, Fields: map[string]string{"Full Name": "Bad Email", "Email ID": "nope"}},
	}

	valid, rowErrors := BuildMasterDataRows(rows)
	if len(valid) != 1 {
		t.Fatalf("expected 1 valid row, got %d", len(valid))
	}
	if valid[0].Name != "Nisha Shetty" || valid[0].Company != "Surya Renewables" {
		t.Fatalf("synonym mapping failed: %+v", valid[0])
	}
	if len(rowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %d", len(rowErrors))
	}
	if rowErrors[1].Errors[0] != "Email is not a valid email address" {
		t.Fatalf("unexpected error text %q", rowErrors[1].Errors[0])
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"priya@mapleadvisory.in", true},
		{"a@b.co", true},
		{"no-at-sign", false},
		{"spaces in@mail.com", false},
		{"trailing@nodot", false},
	}
	for _, tc := range cases {
		if got := ValidEmail(tc.in); got != tc.ok {
			t.Errorf("ValidEmail(%q) = %v, want %v", tc.in, got, tc.ok)
		}
	}
}
