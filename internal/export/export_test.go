package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"partsbin/internal/models"
	"partsbin/internal/store"
)

// fakePublisher records uploads instead of talking to S3.
type fakePublisher struct {
	key  string
	body string
	err  error
}

func (f *fakePublisher) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.err != nil {
		return f.err
	}
	data, _ := io.ReadAll(body)
	f.key = key
	f.body = string(data)
	return nil
}

func (f *fakePublisher) FileURL(key string) string {
	return "https://cdn.test/" + key
}

func testCatalog() models.Catalog {
	return models.Catalog{
		{Name: "ICs", Items: []models.Part{
			{ID: "8", Name: "NE555", Quantity: "4", Category: "ICs", Description: "timer, 8-pin", Image: "NE555.jpg"},
		}},
		{Name: "Resistors", Items: []models.Part{
			{ID: "1", Name: "10k", Quantity: "100", Category: "Resistors", Description: `say "hi"` + "\nsecond line"},
			{ID: "2", Name: "220R", Quantity: "0", Category: "Resistors"},
		}},
	}
}

func newJob(t *testing.T, pub Publisher) (*Job, string) {
	t.Helper()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "parts.json")
	if err := store.WriteCatalog(catalogPath, testCatalog()); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "ElectronicParts.csv")
	return NewJob(store.NewCatalogStore(catalogPath, store.DefaultLocale), out, pub), out
}

func TestWrite_RowsAndColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testCatalog()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	want := [][]string{
		{"ID", "Name", "Quantity", "Category", "Description"},
		{"8", "NE555", "4", "ICs", "timer, 8-pin"},
		{"1", "10k", "100", "Resistors", "say \"hi\"\nsecond line"},
		{"2", "220R", "0", "Resistors", ""},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_QuotesSpecialCharacters(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testCatalog()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "ID,Name,Quantity,Category,Description\n") {
		t.Errorf("unexpected header line in %q", out)
	}
	if !strings.Contains(out, `"timer, 8-pin"`) {
		t.Error("field with comma should be quoted")
	}
	if !strings.Contains(out, `"say ""hi""`) {
		t.Error("embedded quotes should be doubled")
	}
	if strings.Contains(out, "NE555.jpg") {
		t.Error("image reference must not be exported")
	}
}

func TestJobRun_OverwritesPreviousExport(t *testing.T) {
	job, out := newJob(t, nil)

	if err := os.WriteFile(out, []byte("stale,content\nmore,rows\nand,more\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Path != "ElectronicParts.csv" || res.URL != "" {
		t.Errorf("result = %+v, want local path only", res)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("previous export content survived")
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Errorf("got %d records, want header + 3 parts", len(records))
	}
}

func TestJobRun_MissingCatalog(t *testing.T) {
	dir := t.TempDir()
	job := NewJob(store.NewCatalogStore(filepath.Join(dir, "missing.json"), store.DefaultLocale), filepath.Join(dir, "out.csv"), nil)

	if _, err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error when catalog is missing")
	}
}

func TestJobRun_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	job, out := newJob(t, pub)

	res, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if pub.key != "exports/ElectronicParts.csv" {
		t.Errorf("uploaded key = %q", pub.key)
	}
	if res.URL != "https://cdn.test/exports/ElectronicParts.csv" {
		t.Errorf("URL = %q", res.URL)
	}

	local, _ := os.ReadFile(out)
	if pub.body != string(local) {
		t.Error("published body differs from local file")
	}
}

func TestJobRun_PublishFailureIsNotFatal(t *testing.T) {
	job, _ := newJob(t, &fakePublisher{err: errors.New("bucket gone")})

	res, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.URL != "" {
		t.Errorf("URL = %q, want empty after failed publish", res.URL)
	}
}
