package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testRecord(published, link string) Record {
	return Record{
		Published: published,
		Headline:  "Headline for " + link,
		Link:      link,
		Source:    "Jamaica Gleaner",
		Sentiment: "Neutral",
		Compound:  0,
		Positive:  0,
		Negative:  0,
		Neutral:   1,
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Jamaica Gleaner":             "Jamaica_Gleaner",
		"Radio Jamaica Online":        "Radio_Jamaica_Online",
		"Jamaica Information Service": "Jamaica_Information_Service",
		"  Tech - News!  ":            "Tech_News",
		"BBC: World/Africa":           "BBC_WorldAfrica",
		"snake_case stays":            "snake_case_stays",
		"Café Olé":                    "Café_Olé",
	}

	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugifyNormalisesComposition(t *testing.T) {
	composed := "Caf\u00e9 News"
	decomposed := "Cafe\u0301 News"
	if Slugify(composed) != Slugify(decomposed) {
		t.Errorf("Expected composed and decomposed names to share a slug, got %q and %q",
			Slugify(composed), Slugify(decomposed))
	}
}

func TestStorePath(t *testing.T) {
	store := NewStore("csv", 100)
	path := store.Path("Jamaica Gleaner")
	if !strings.Contains(path, "Jamaica_Gleaner") {
		t.Errorf("Expected path to contain 'Jamaica_Gleaner', got '%s'", path)
	}
	if filepath.Ext(path) != ".csv" {
		t.Errorf("Expected .csv extension, got '%s'", path)
	}
}

func TestUpsertCreatesFileWithHeader(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "csv"), 100)

	if err := store.Upsert("Jamaica Gleaner", testRecord("2024-05-01 10:00:00", "https://example.com/1")); err != nil {
		t.Fatal(err)
	}

	rows := readRows(t, store.Path("Jamaica Gleaner"))
	if len(rows) != 2 {
		t.Fatalf("Expected header and 1 row, got %d rows", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	if rows[1][2] != "https://example.com/1" {
		t.Errorf("Expected link in third column, got '%s'", rows[1][2])
	}
	if rows[1][8] != "1" {
		t.Errorf("Expected neutral score '1', got '%s'", rows[1][8])
	}
}

func TestUpsertSortsNewestFirst(t *testing.T) {
	store := NewStore(t.TempDir(), 100)

	published := []string{
		"2024-05-01 10:00:00",
		"2024-05-03 08:00:00",
		"2024-04-30 23:59:59",
		"2024-05-02 12:30:00",
	}
	for i, p := range published {
		if err := store.Upsert("Feed", testRecord(p, fmt.Sprintf("https://example.com/%d", i))); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.Read("Feed")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(published) {
		t.Fatalf("Expected %d records, got %d", len(published), len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].Published < records[i].Published {
			t.Errorf("Rows out of order at %d: %s before %s", i, records[i-1].Published, records[i].Published)
		}
	}
	if records[0].Published != "2024-05-03 08:00:00" {
		t.Errorf("Expected newest row first, got %s", records[0].Published)
	}
}

func TestUpsertPrunesToMaxRows(t *testing.T) {
	store := NewStore(t.TempDir(), 100)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 130; i++ {
		published := base.Add(time.Duration(i) * time.Hour).Format(PublishedLayout)
		if err := store.Upsert("Feed", testRecord(published, fmt.Sprintf("https://example.com/%d", i))); err != nil {
			t.Fatal(err)
		}
	}

	records, err := store.Read("Feed")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 100 {
		t.Fatalf("Expected 100 records after pruning, got %d", len(records))
	}

	newest := base.Add(129 * time.Hour).Format(PublishedLayout)
	oldestKept := base.Add(30 * time.Hour).Format(PublishedLayout)
	if records[0].Published != newest {
		t.Errorf("Expected newest %s first, got %s", newest, records[0].Published)
	}
	if records[99].Published != oldestKept {
		t.Errorf("Expected oldest kept %s last, got %s", oldestKept, records[99].Published)
	}
}

func TestUpsertPrunesOlderIncomingRecord(t *testing.T) {
	store := NewStore(t.TempDir(), 2)

	store.Upsert("Feed", testRecord("2024-05-02 00:00:00", "a"))
	store.Upsert("Feed", testRecord("2024-05-03 00:00:00", "b"))
	if err := store.Upsert("Feed", testRecord("2024-05-01 00:00:00", "c")); err != nil {
		t.Fatal(err)
	}

	records, err := store.Read("Feed")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Link != "b" || records[1].Link != "a" {
		t.Errorf("Expected [b a], got %+v", records)
	}
}

func TestUpsertRecoversFromCorruptFile(t *testing.T) {
	store := NewStore(t.TempDir(), 100)
	path := store.Path("Feed")

	corrupt := "Published,Headline,Link\n\"2024-05-01 10:00:00,unterminated quote\n"
	if err := os.WriteFile(path, []byte(corrupt), 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.Upsert("Feed", testRecord("2024-05-02 10:00:00", "https://example.com/new")); err != nil {
		t.Fatal(err)
	}

	rows := readRows(t, path)
	if len(rows) != 2 {
		t.Fatalf("Expected header and exactly 1 row, got %d rows", len(rows))
	}
	if rows[1][2] != "https://example.com/new" {
		t.Errorf("Expected the new record to be kept, got %v", rows[1])
	}
}

func TestUpsertRecoversFromBinaryGarbage(t *testing.T) {
	store := NewStore(t.TempDir(), 100)
	path := store.Path("Feed")

	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x81}, 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.Upsert("Feed", testRecord("2024-05-02 10:00:00", "https://example.com/new")); err != nil {
		t.Fatal(err)
	}

	records, err := store.Read("Feed")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("Expected exactly 1 record, got %d", len(records))
	}
}

func TestUpsertWritesUnsortedWhenPublishedColumnMissing(t *testing.T) {
	store := NewStore(t.TempDir(), 100)
	path := store.Path("Feed")

	legacy := "Headline,Link,Sentiment\nOld story,https://example.com/old,Negative\n"
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	if err := store.Upsert("Feed", testRecord("2024-05-02 10:00:00", "https://example.com/new")); err != nil {
		t.Fatal(err)
	}

	records, err := store.Read("Feed")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected both rows to be kept, got %d", len(records))
	}
	if records[0].Link != "https://example.com/old" || records[1].Link != "https://example.com/new" {
		t.Errorf("Expected append order to be preserved, got %s then %s", records[0].Link, records[1].Link)
	}
}

func TestReadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir(), 100)

	_, err := store.Read("Nowhere")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestReadMissingSentimentColumn(t *testing.T) {
	store := NewStore(t.TempDir(), 100)
	path := store.Path("Feed")

	if err := os.WriteFile(path, []byte("Published,Headline,Link\n2024-05-01 10:00:00,A,B\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := store.Read("Feed")
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}
}

func TestReadReorderedColumns(t *testing.T) {
	store := NewStore(t.TempDir(), 100)
	path := store.Path("Feed")

	data := "Link,Sentiment,Published,Compound\nhttps://example.com/x,Positive,2024-05-01 10:00:00,0.6249\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := store.Read("Feed")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Link != "https://example.com/x" || r.Sentiment != "Positive" || r.Compound != 0.6249 {
		t.Errorf("Unexpected record: %+v", r)
	}
}

func TestHeadlineQuoting(t *testing.T) {
	store := NewStore(t.TempDir(), 100)

	record := testRecord("2024-05-01 10:00:00", "https://example.com/q")
	record.Headline = `PM says "no new taxes", opposition disagrees`

	if err := store.Upsert("Feed", record); err != nil {
		t.Fatal(err)
	}

	records, err := store.Read("Feed")
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Headline != record.Headline {
		t.Errorf("Expected headline to survive quoting, got %q", records[0].Headline)
	}
}
