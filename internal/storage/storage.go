// Package storage writes the per-run artifacts: the rendered HTML document
// and a JSON record of what was generated.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sprachbrief/internal/sections"
)

const timestampLayout = "20060102_150405"

// Record is the JSON run record stored next to the HTML document.
type Record struct {
	GenerationDate string `json:"generation_date"`
	OriginalTitle  string `json:"original_title"`
	SourceURL      string `json:"source_url"`
	FullText       string `json:"full_text"`
	ModelName      string `json:"model_name"`
	Status         string `json:"status"`
}

// Writer persists run artifacts under one directory, sharing a timestamp
// basis between the HTML and JSON files.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteHTML stores the rendered document and returns its path.
func (w *Writer) WriteHTML(ts time.Time, html string) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("newsletter_%s.html", ts.Format(timestampLayout)))
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("write newsletter html: %w", err)
	}
	return path, nil
}

// WriteRecord stores the JSON run record and returns its path.
func (w *Writer) WriteRecord(ts time.Time, rec Record) (string, error) {
	path := filepath.Join(w.dir, fmt.Sprintf("newsletter_%s.json", ts.Format(timestampLayout)))

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal run record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write run record: %w", err)
	}
	return path, nil
}

// BuildFullText assembles the plain-text rendition of the newsletter stored
// in the run record.
func BuildFullText(title string, set sections.SectionSet) string {
	return fmt.Sprintf(`📰 %s

=== ARTICLE SIMPLIFIÉ (Niveau A2) ===
%s

=== VOCABULAIRE UTILE ===
%s

=== POINT DE LANGUE ===
%s

=== RÉSUMÉ EN FRANÇAIS ===
%s`, title, set.Article, set.Vocabulary, set.Grammar, set.Summary)
}
