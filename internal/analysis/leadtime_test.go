package analysis

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestLeadTracker_CreditDebitSplit(t *testing.T) {
	lt := NewLeadTracker([]string{"Bob"}, 24)

	lt.Record(0, 3, 0.2, -35.0) // paid for energy: debit
	lt.Record(0, 3, 0.3, -40.0)
	lt.Record(0, 3, -0.1, 20.0) // sold energy: credit

	path := filepath.Join(t.TempDir(), "leads.csv")
	if err := lt.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("Expected header + 1 bucket, got %d rows", len(rows))
	}

	row := rows[1]
	if row[0] != "Bob" || row[1] != "3" {
		t.Errorf("Expected bucket (Bob, 3), got %v", row)
	}
	// debit volume 0.5 MWh, VWAP (0.2*-35 + 0.3*-40)/0.5 = -38
	if row[2] != "0.5000" || row[3] != "-38.0000" {
		t.Errorf("Unexpected debit columns: %v", row)
	}
	// credit volume 0.1 MWh at 20
	if row[4] != "0.1000" || row[5] != "20.0000" {
		t.Errorf("Unexpected credit columns: %v", row)
	}
}

func TestLeadTracker_Clamping(t *testing.T) {
	lt := NewLeadTracker([]string{"Bob"}, 4)

	lt.Record(0, -1, 1.0, 10.0) // folds into bucket 0
	lt.Record(0, 99, 1.0, 10.0) // folds into the last bucket
	lt.Record(5, 0, 1.0, 10.0)  // unknown broker index, dropped

	path := filepath.Join(t.TempDir(), "leads.csv")
	if err := lt.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 buckets, got %d rows", len(rows))
	}
	if rows[1][1] != "0" || rows[2][1] != "3" {
		t.Errorf("Expected buckets 0 and 3, got %v / %v", rows[1], rows[2])
	}
}

func TestLeadTracker_EmptyBucketsSkipped(t *testing.T) {
	lt := NewLeadTracker([]string{"Bob", "Sally"}, 24)
	lt.Record(1, 0, 1.0, 10.0)

	path := filepath.Join(t.TempDir(), "leads.csv")
	if err := lt.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("Only the touched bucket should be written, got %d rows", len(rows))
	}
	if rows[1][0] != "Sally" {
		t.Errorf("Expected Sally's bucket, got %v", rows[1])
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	return rows
}
