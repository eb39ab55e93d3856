package source

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// writeExport creates a temp JSONL file and returns a DiscoveredFile for it.
func writeExport(t *testing.T, lines ...string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "gifts.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, Name: "gifts"}
}

func TestParseFile_Gifts(t *testing.T) {
	df := writeExport(t,
		`{"donor":"Azalea Cooperative","amount":"250","frequency":"Monthly","focusArea":"Healing Arts","date":"2024-03-01"}`,
		`{"type":"gift","donor":"Rosa Park Collective","amount":75.5,"note":"in memory of June"}`,
	)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Gifts) != 2 {
		t.Fatalf("Gifts = %d, want 2", len(result.Gifts))
	}

	first := result.Gifts[0]
	if first.Fields.Donor != "Azalea Cooperative" || first.Fields.Amount != "250" {
		t.Errorf("first = %+v", first.Fields)
	}
	if first.Fields.FocusArea != "Healing Arts" || first.Line != 1 {
		t.Errorf("first = %+v line %d", first.Fields, first.Line)
	}

	second := result.Gifts[1]
	if second.Fields.Amount != "75.5" {
		t.Errorf("numeric amount = %q, want 75.5", second.Fields.Amount)
	}
	if second.Fields.Frequency != "" {
		t.Errorf("Frequency = %q, want empty", second.Fields.Frequency)
	}
}

func TestParseFile_DedupByID(t *testing.T) {
	df := writeExport(t,
		`{"id":"g1","donor":"First","amount":"10"}`,
		`{"id":"g2","donor":"Other","amount":"20"}`,
		`{"id":"g1","donor":"First","amount":"15"}`,
	)

	result := ParseFile(df)
	if len(result.Gifts) != 2 {
		t.Fatalf("Gifts = %d, want 2 (dedup)", len(result.Gifts))
	}
	g := result.Gifts[0]
	if g.ID != "g1" || g.Fields.Amount != "15" || g.Line != 1 {
		t.Errorf("dedup kept %+v at line %d, want amount 15 at line 1", g.Fields, g.Line)
	}
}

func TestParseFile_SkipsOtherTypesAndBadLines(t *testing.T) {
	df := writeExport(t,
		`# exported 2024-03-15`,
		``,
		`{"type":"campaign","name":"Spring Healing Circles","meta":{"type":"gift"}}`,
		`{"donor":"broken",`,
		`{"donor":"Nested","amount":"5","meta":{"type":"campaign"}}`,
	)

	result := ParseFile(df)
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if result.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", result.ParseErrors)
	}
	if len(result.Gifts) != 1 || result.Gifts[0].Fields.Donor != "Nested" {
		t.Errorf("Gifts = %+v, want only Nested", result.Gifts)
	}
}

func TestParseFile_Missing(t *testing.T) {
	result := ParseFile(DiscoveredFile{Path: filepath.Join(t.TempDir(), "nope.jsonl")})
	if result.Err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractTopLevelType(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`{"type":"gift","donor":"A"}`, "gift"},
		{`{"type": "campaign"}`, "campaign"},
		{`{"donor":"A","meta":{"type":"campaign"}}`, ""},
		{`{"note":"type","type":"gift"}`, "gift"},
		{`{"type":null}`, ""},
		{`{"donor":"say \"type\""}`, ""},
	}
	for _, tt := range tests {
		if got := extractTopLevelType([]byte(tt.line)); got != tt.want {
			t.Errorf("extractTopLevelType(%s) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestScanAndLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, body string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("2024/march.jsonl", `{"donor":"A","amount":"1"}`+"\n"+`{"donor":"B","amount":"2"}`+"\n")
	write("april.ndjson", `{"donor":"C","amount":"3"}`+"\n"+`not json`+"\n")
	write("notes.txt", "ignored")
	write(".hidden/secret.jsonl", `{"donor":"D","amount":"4"}`+"\n")

	files, err := Scan(dir, filepath.Join(dir, "april.ndjson"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("Scan found %d files, want 2: %+v", len(files), files)
	}
	if files[0].Name != "march" || files[1].Name != "april" {
		t.Errorf("names = %q, %q", files[0].Name, files[1].Name)
	}

	var calls atomic.Int32
	res := Load(files, func(_, total int) {
		calls.Add(1)
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
	})
	if n := calls.Load(); n != 2 {
		t.Errorf("progress calls = %d, want 2", n)
	}
	if res.ParsedFiles != 2 || res.ParseErrors != 1 {
		t.Errorf("ParsedFiles = %d, ParseErrors = %d", res.ParsedFiles, res.ParseErrors)
	}
	gifts := res.Gifts()
	if len(gifts) != 3 || gifts[0].Fields.Donor != "A" || gifts[2].Fields.Donor != "C" {
		t.Errorf("Gifts = %+v", gifts)
	}
}

func TestScanMissingPath(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for missing path")
	}
}
