// Package scraper fetches the selected article page and extracts its plain
// text paragraphs.
package scraper

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"

	"sprachbrief/internal/config"

	"github.com/PuerkitoBio/goquery"
)

const (
	// Paragraphs at or below this length are navigation, captions or bylines.
	minParagraphChars = 30
	// Hard cap on extracted content. Not sentence aware; the section prompts
	// take shorter prefixes anyway.
	maxContentChars = 2000
)

// Extractor downloads one article page and pulls out its body text.
type Extractor struct {
	client    *http.Client
	userAgent string
}

func NewExtractor(cfg config.ScraperConfig) *Extractor {
	transport := http.DefaultTransport
	if cfg.AllowInsecureTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Extractor{
		client: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: transport,
		},
		userAgent: cfg.UserAgent,
	}
}

// Extract performs a single GET and returns the joined paragraph text,
// truncated to maxContentChars. Any transport or parse error, and a page
// with no usable paragraphs, are failures.
func (e *Extractor) Extract(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	// Any 2xx counts as a successful fetch.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch article: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse article html: %w", err)
	}

	var paragraphs []string
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len([]rune(text)) > minParagraphChars {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		return "", fmt.Errorf("no usable paragraphs in %s", url)
	}

	content := strings.Join(paragraphs, "\n\n")
	if runes := []rune(content); len(runes) > maxContentChars {
		content = string(runes[:maxContentChars])
	}

	return content, nil
}
