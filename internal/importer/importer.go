// Package importer turns uploaded spreadsheets into validated fund-tracker and
// master-data rows. Parsing, header mapping and row validation live here;
// persistence is the service layer's job.
package importer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/maple-advisory/crm-backend/internal/types"
)

var ErrNoDataRows = errors.New("spreadsheet has no data rows")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Sheet is the first worksheet of an uploaded file: the header row plus every
// data row keyed by its header.
type Sheet struct {
	Headers []string
	Rows    []Row
}

// Row is one data row with its original 1-based spreadsheet row number. The
// number survives blank-row filtering so validation errors point at the row
// the user sees in their spreadsheet.
type Row struct {
	Number int
	Fields map[string]string
}

// RowError reports validation failures for one data row. Row is the 1-based
// spreadsheet row number, so the first data row is row 2.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ParseBase64 decodes a base64-encoded workbook and reads the first sheet.
// The first row is treated as headers.
func ParseBase64(fileData string) (*Sheet, error) {
	raw, err := base64.StdEncoding.DecodeString(fileData)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoDataRows
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrNoDataRows
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := make([]Row, 0, len(rows)-1)
	for n, row := range rows[1:] {
		record := make(map[string]string, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			var value string
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			record[header] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			// Header row is row 1, so the first data row is row 2.
			data = append(data, Row{Number: n + 2, Fields: record})
		}
	}
	if len(data) == 0 {
		return nil, ErrNoDataRows
	}

	return &Sheet{Headers: headers, Rows: data}, nil
}

// fundTrackerSynonyms maps lowercase header spellings seen in the wild to
// canonical fund-tracker field names. Unrecognized headers are ignored.
var fundTrackerSynonyms = map[string]string{
	"fund name":      "fundName",
	"fundname":       "fundName",
	"name":           "fundName",
	"fund":           "fundName",
	"website":        "website",
	"url":            "website",
	"fund type":      "fundType",
	"type":           "fundType",
	"stages":         "stages",
	"stage":          "stages",
	"investment stage": "stages",
	"source":           "source",
	"contact 1":        "contactPerson1",
	"contact person 1": "contactPerson1",
	"primary contact":  "contactPerson1",
	"contact name":     "contactPerson1",
	"designation 1":    "designation1",
	"designation":      "designation1",
	"title 1":          "designation1",
	"email 1":          "email1",
	"email":            "email1",
	"primary email":    "email1",
	"phone 1":          "phone1",
	"phone":            "phone1",
	"contact 2":          "contactPerson2",
	"contact person 2":   "contactPerson2",
	"secondary contact":  "contactPerson2",
	"designation 2":      "designation2",
	"title 2":            "designation2",
	"email 2":            "email2",
	"secondary email":    "email2",
	"phone 2":            "phone2",
	"notes":              "notes",
	"remarks":            "notes",
	"comments":           "notes",
}

// masterDataSynonyms does the same for the client master-data directory.
var masterDataSynonyms = map[string]string{
	"name":         "name",
	"contact name": "name",
	"full name":    "name",
	"designation":  "designation",
	"title":        "designation",
	"position":     "designation",
	"company":      "company",
	"organisation": "company",
	"organization": "company",
	"firm":         "company",
	"industry":     "industry",
	"sector":       "industry",
	"address":      "address",
	"location":     "address",
	"city":         "address",
	"phone":        "phone",
	"phone number": "phone",
	"mobile":       "phone",
	"contact number": "phone",
	"email":          "email",
	"email id":       "email",
	"email address":  "email",
	"notes":          "notes",
	"remarks":        "notes",
}

// FundTrackerRow is a validated fund-tracker import row.
type FundTrackerRow struct {
	FundName       string
	Website        string
	FundType       string
	Stages         []string
	Source         string
	ContactPerson1 string
	Designation1   string
	Email1         string
	Phone1         string
	ContactPerson2 string
	Designation2   string
	Email2         string
	Phone2         string
	Notes          string
}

// MasterDataRow is a validated client master-data import row.
type MasterDataRow struct {
	Name        string
	Designation string
	Company     string
	Industry    string
	Address     string
	Phone       string
	Email       string
	Notes       string
}

// mapRow resolves raw headers to canonical field names. Headers with no
// synonym entry are dropped silently.
func mapRow(raw map[string]string, synonyms map[string]string) map[string]string {
	out := make(map[string]string)
	for header, value := range raw {
		canonical, ok := synonyms[strings.ToLower(strings.TrimSpace(header))]
		if !ok {
			continue
		}
		if value != "" {
			out[canonical] = value
		}
	}
	return out
}

// splitSet splits a set-valued cell on commas and semicolons and keeps only
// members of the allowlist.
func splitSet(value string, allowed []string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		trimmed := strings.TrimSpace(part)
		if types.IsValid(trimmed, allowed) {
			out = append(out, trimmed)
		}
	}
	return out
}

// enumOrEmpty keeps the value only when it is an exact member of the allowlist.
func enumOrEmpty(value string, allowed []string) string {
	if types.IsValid(value, allowed) {
		return value
	}
	return ""
}

// BuildFundTrackerRows maps and validates raw sheet rows. Rows that fail
// validation are reported with their 1-based spreadsheet row number and
// excluded from the returned set; they never abort the batch.
func BuildFundTrackerRows(rows []Row) ([]FundTrackerRow, []RowError) {
	var valid []FundTrackerRow
	var rowErrors []RowError

	for _, raw := range rows {
		fields := mapRow(raw.Fields, fundTrackerSynonyms)
		row := FundTrackerRow{
			FundName:       fields["fundName"],
			Website:        fields["website"],
			FundType:       enumOrEmpty(fields["fundType"], types.ValidFundTypes),
			Stages:         splitSet(fields["stages"], types.ValidFundStages),
			Source:         enumOrEmpty(fields["source"], types.ValidFundSources),
			ContactPerson1: fields["contactPerson1"],
			Designation1:   fields["designation1"],
			Email1:         fields["email1"],
			Phone1:         fields["phone1"],
			ContactPerson2: fields["contactPerson2"],
			Designation2:   fields["designation2"],
			Email2:         fields["email2"],
			Phone2:         fields["phone2"],
			Notes:          fields["notes"],
		}

		var errs []string
		if row.FundName == "" {
			errs = append(errs, "Fund Name is required")
		}
		if row.ContactPerson1 == "" {
			errs = append(errs, "Contact 1 is required")
		}
		if row.Designation1 == "" {
			errs = append(errs, "Designation 1 is required")
		}
		if row.Email1 == "" {
			errs = append(errs, "Email 1 is required")
		} else if !emailPattern.MatchString(row.Email1) {
			errs = append(errs, "Email 1 is not a valid email address")
		}
		if row.Email2 != "" && !emailPattern.MatchString(row.Email2) {
			errs = append(errs, "Email 2 is not a valid email address")
		}

		if len(errs) > 0 {
			rowErrors = append(rowErrors, RowError{Row: raw.Number, Errors: errs})
			continue
		}
		valid = append(valid, row)
	}
	return valid, rowErrors
}

// BuildMasterDataRows maps and validates raw sheet rows for the master-data
// directory.
func BuildMasterDataRows(rows []Row) ([]MasterDataRow, []RowError) {
	var valid []MasterDataRow
	var rowErrors []RowError

	for _, raw := range rows {
		fields := mapRow(raw.Fields, masterDataSynonyms)
		row := MasterDataRow{
			Name:        fields["name"],
			Designation: fields["designation"],
			Company:     fields["company"],
			Industry:    fields["industry"],
			Address:     fields["address"],
			Phone:       fields["phone"],
			Email:       fields["email"],
			Notes:       fields["notes"],
		}

		var errs []string
		if row.Name == "" {
			errs = append(errs, "Name is required")
		}
		if row.Email != "" && !emailPattern.MatchString(row.Email) {
			errs = append(errs, "Email is not a valid email address")
		}

		if len(errs) > 0 {
			rowErrors = append(rowErrors, RowError{Row: raw.Number, Errors: errs})
			continue
		}
		valid = append(valid, row)
	}
	return valid, rowErrors
}

// ValidEmail reports whether s looks like an email address. Shared with the
// form-level validation in the services.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
