// Package render fills the newsletter HTML template from a complete section
// set.
package render

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"sprachbrief/internal/sections"
)

// ErrTemplateMissing is returned when the template file does not exist.
var ErrTemplateMissing = errors.New("newsletter template not found")

// LoadTemplate reads the UTF-8 template document from disk.
func LoadTemplate(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrTemplateMissing, path)
		}
		return "", fmt.Errorf("read template %s: %w", path, err)
	}
	return string(raw), nil
}

// Input is everything Render needs. Date is passed in rather than read from
// the clock so rendering stays a pure function.
type Input struct {
	Title     string
	Sections  sections.SectionSet
	SourceURL string
	Date      time.Time
}

// VocabEntry is one word/translation pair parsed out of the vocabulary
// section.
type VocabEntry struct {
	Word        string
	Translation string
}

var ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)

// ParseVocabulary decomposes the vocabulary section line by line. Lines
// without a separator are skipped; the first "=" splits word from
// translation and a leading "N." ordinal is stripped from the word.
func ParseVocabulary(text string) []VocabEntry {
	var entries []VocabEntry
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "=") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		word := strings.TrimSpace(ordinalPrefix.ReplaceAllString(strings.TrimSpace(parts[0]), ""))
		translation := strings.TrimSpace(parts[1])
		entries = append(entries, VocabEntry{Word: word, Translation: translation})
	}
	return entries
}

func vocabularyItems(text string) string {
	var b strings.Builder
	for _, e := range ParseVocabulary(text) {
		b.WriteString(fmt.Sprintf(`
                    <li class="vocab-item">
                        <div class="vocab-word">%s</div>
                        <div class="vocab-translation">= %s</div>
                    </li>`, e.Word, e.Translation))
	}
	return b.String()
}

// Render substitutes the template placeholders. This is a flat
// find-and-replace: generated text containing literal placeholder syntax is
// not escaped. Replacements run in a fixed order so a placeholder literal
// inside a substituted value yields the same output on every call.
func Render(template string, in Input) string {
	replacements := []struct {
		placeholder string
		value       string
	}{
		{"{{TITRE_ARTICLE}}", in.Title},
		{"{{ARTICLE_SIMPLIFIE}}", withBreaks(in.Sections.Article)},
		{"{{VOCABULAIRE_ITEMS}}", vocabularyItems(in.Sections.Vocabulary)},
		{"{{POINT_LANGUE}}", withBreaks(in.Sections.Grammar)},
		{"{{RESUME_FRANCAIS}}", withBreaks(in.Sections.Summary)},
		{"{{DATE}}", in.Date.Format("02/01/2006")},
		{"{{LIEN_ARTICLE}}", in.SourceURL},
	}

	html := template
	for _, r := range replacements {
		html = strings.ReplaceAll(html, r.placeholder, r.value)
	}
	return html
}

func withBreaks(text string) string {
	return strings.ReplaceAll(text, "\n", "<br><br>")
}
