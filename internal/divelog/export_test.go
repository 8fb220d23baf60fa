package divelog_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/deepblue/internal/divelog"
)

func TestWriteXLSX(t *testing.T) {
	entries := []divelog.Entry{
		{ID: "2", Date: "2024-05-02", Location: "Manta Point", Depth: 18.5, Duration: 45, Notes: "Three mantas"},
		{ID: "1", Date: "2024-05-01", Location: "House Reef", Depth: 12, Duration: 50},
	}

	var buf bytes.Buffer
	if err := divelog.WriteXLSX(&buf, entries); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Dive Log")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 2 dives + totals", len(rows))
	}
	if rows[0][2] != "Location" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "House Reef" || rows[2][2] != "Manta Point" {
		t.Errorf("dives should be oldest first: %v / %v", rows[1], rows[2])
	}
	if rows[2][3] != "18.5" || rows[2][4] != "45" {
		t.Errorf("numeric cells = %q/%q, want 18.5/45", rows[2][3], rows[2][4])
	}
	if rows[3][0] != "Total" || rows[3][4] != "95" {
		t.Errorf("totals row = %v", rows[3])
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := divelog.WriteXLSX(&buf, nil); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty log should still produce a workbook")
	}
}
