package csvio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteCSVStartsWithBOM(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, Table{
		Header: []string{"company_name", "city"},
		Rows:   [][]string{{"Prijevoz Šimić d.o.o.", "Split"}, {"Acme, Inc", "Zagreb"}},
	})
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\ufeffcompany_name,city\n") {
		t.Fatalf("unexpected prefix: %q", out[:30])
	}
	if !strings.Contains(out, `"Acme, Inc",Zagreb`) {
		t.Fatalf("comma field not quoted: %q", out)
	}
}

func TestReadCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	table := Table{
		Header: []string{"Company_Name", "City"},
		Rows:   [][]string{{"Prijevoz Šimić d.o.o.", "Split"}},
	}
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatal(err)
	}
	records, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 1 || records[0].Get("company_name") != "Prijevoz Šimić d.o.o." {
		t.Fatalf("records = %#v", records)
	}
}

func TestReadCSVSemicolonsAndBlankLines(t *testing.T) {
	in := "vehicle_id;liters;total_cost\n3;120,5;180\n\n;;\n4;80;95.20\n"
	records, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Get("liters") != "120,5" || records[1].Get("vehicle_id") != "4" {
		t.Fatalf("records = %#v", records)
	}
}

func TestReadCSVNoRows(t *testing.T) {
	for _, in := range []string{"", "company_name\n", "company_name\n , \n"} {
		if _, err := ReadCSV(strings.NewReader(in)); !errors.Is(err, ErrNoRows) {
			t.Fatalf("ReadCSV(%q) err = %v, want ErrNoRows", in, err)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, Table{
		Name:   "Fuel",
		Header: []string{"date", "plate", "liters"},
		Rows:   [][]string{{"2024-03-01", "ST-123-AB", "120.50"}},
	})
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	v, err := f.GetCellValue("Fuel", "B2")
	if err != nil || v != "ST-123-AB" {
		t.Fatalf("B2 = %q, %v", v, err)
	}
	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Fuel" {
		t.Fatalf("sheets = %v", got)
	}
}
