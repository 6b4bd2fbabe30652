package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ftdb/dump/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *domain.Snapshot {
	uuid := "0f8c5c94-7483-4f37-a234-d8bd6ca68677"
	weight := 1.5
	count := 4

	snapshot := domain.NewSnapshot()
	snapshot.Kits[3564] = &domain.Kit{
		Ticket: domain.Ticket{
			ID:             3564,
			Created:        "2019-06-06T16:41:15",
			Title:          "Grundbaukasten 50",
			ArticleNumbers: map[string]string{"30050": "1968", "": "1975"},
			UUID:           &uuid,
			URLAPI:         "https://ft-datenbank.de/api/ticket/3564",
			URL:            "https://ft-datenbank.de/ticket/3564",
			ThumbnailURL:   "https://ft-datenbank.de/thumbnail/1a2b3c",
		},
		Parts: map[int64]*int{167: &count, 168: nil},
	}
	snapshot.Parts[167] = &domain.Part{
		Ticket: domain.Ticket{
			ID:             167,
			Created:        "2019-06-06T16:41:15",
			Title:          "Baustein 30",
			ArticleNumbers: map[string]string{"31003": "1968"},
			URLAPI:         "https://ft-datenbank.de/api/ticket/167",
			URL:            "https://ft-datenbank.de/ticket/167",
		},
		Weight: &weight,
	}
	snapshot.Parts[168] = &domain.Part{
		Ticket: domain.Ticket{
			ID:             168,
			Created:        "2019-06-06T16:41:15",
			Title:          "Baustein 15",
			ArticleNumbers: map[string]string{},
			URLAPI:         "https://ft-datenbank.de/api/ticket/168",
			URL:            "https://ft-datenbank.de/ticket/168",
		},
	}
	return snapshot
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, NewFileSnapshotRepository(path).Save(sampleSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var reread domain.Snapshot
	require.NoError(t, json.Unmarshal(data, &reread))
	assert.Equal(t, sampleSnapshot(), &reread)
}

func TestSave_Deterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")

	require.NoError(t, NewFileSnapshotRepository(first).Save(sampleSnapshot()))
	require.NoError(t, NewFileSnapshotRepository(second).Save(sampleSnapshot()))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSave_DocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, NewFileSnapshotRepository(path).Save(sampleSnapshot()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)

	// Kit and part mappings are keyed by stringified ids, the form the
	// spreadsheet exporter and image downloader read.
	assert.Contains(t, doc, `"3564"`)
	assert.Contains(t, doc, `"167"`)
	// Parts without a count serialize as null, not as a missing key.
	assert.Contains(t, doc, `"168": null`)
	// Shared part records never carry a count.
	assert.NotContains(t, doc, `"count"`)
}

func TestDefaultPath(t *testing.T) {
	now := time.Date(2020, 5, 17, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "ftdb-dump-2020-05-17.json", DefaultPath(now))
}
