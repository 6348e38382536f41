// Package sections drives the four-stage generation protocol that turns the
// extracted article text into the newsletter sections.
package sections

import (
	"context"
	"fmt"
	"strings"

	"sprachbrief/internal/logger"
	"sprachbrief/internal/metrics"
)

// Kind identifies one generated section.
type Kind string

const (
	KindArticle    Kind = "article"
	KindVocabulary Kind = "vocabulary"
	KindGrammar    Kind = "grammar"
	KindSummary    Kind = "summary"
)

// kinds is the fixed generation order. Later prompts do not depend on
// earlier outputs, but the abort-on-first-failure rule needs a deterministic
// sequence for reproducible failure reporting.
var kinds = []Kind{KindArticle, KindVocabulary, KindGrammar, KindSummary}

// Output-length budgets passed to the backend.
const (
	articleNumPredict = 250
	defaultNumPredict = 120
)

// maxArticleChars is the post-processing cap on the simplified article.
const maxArticleChars = 650

// SectionSet is the complete bundle of generated sections. It is only handed
// downstream once every slot is populated.
type SectionSet struct {
	Article    string
	Vocabulary string
	Grammar    string
	Summary    string
}

// Valid reports whether all four slots are non-empty.
func (s SectionSet) Valid() bool {
	return s.Article != "" && s.Vocabulary != "" && s.Grammar != "" && s.Summary != ""
}

// State tracks the forward-only progress of a generation run.
type State int

const (
	StatePending State = iota
	StateArticleDone
	StateVocabDone
	StateGrammarDone
	StateSummaryDone
	StateFailed
)

var stateAfter = map[Kind]State{
	KindArticle:    StateArticleDone,
	KindVocabulary: StateVocabDone,
	KindGrammar:    StateGrammarDone,
	KindSummary:    StateSummaryDone,
}

// Backend is the generation service the four prompts are sent to.
type Backend interface {
	Generate(ctx context.Context, prompt string, numPredict int) (string, error)
}

// Generator runs the four section calls in order and short-circuits on the
// first missing section.
type Generator struct {
	backend Backend
	state   State
}

func NewGenerator(backend Backend) *Generator {
	return &Generator{backend: backend}
}

// State returns the progress of the last Generate call.
func (g *Generator) State() State {
	return g.state
}

// Generate produces the full SectionSet from the extracted content. Any
// failed or empty section invalidates the whole set: the caller gets an
// error and no partial result.
func (g *Generator) Generate(ctx context.Context, content string) (SectionSet, error) {
	g.state = StatePending
	var set SectionSet

	for _, kind := range kinds {
		text, err := g.backend.Generate(ctx, buildPrompt(kind, content), numPredict(kind))
		if err != nil {
			g.state = StateFailed
			metrics.Global.IncrementSectionsFailed()
			return SectionSet{}, fmt.Errorf("generate %s section: %w", kind, err)
		}
		if text == "" {
			g.state = StateFailed
			metrics.Global.IncrementSectionsFailed()
			return SectionSet{}, fmt.Errorf("generate %s section: empty response", kind)
		}

		if kind == KindArticle {
			text = trimArticle(text)
		}
		set.assign(kind, text)
		g.state = stateAfter[kind]
		metrics.Global.IncrementSectionsGenerated()
		logger.Info("section generated", "kind", string(kind), "chars", len(text))
	}

	return set, nil
}

func (s *SectionSet) assign(kind Kind, text string) {
	switch kind {
	case KindArticle:
		s.Article = text
	case KindVocabulary:
		s.Vocabulary = text
	case KindGrammar:
		s.Grammar = text
	case KindSummary:
		s.Summary = text
	}
}

func numPredict(kind Kind) int {
	if kind == KindArticle {
		return articleNumPredict
	}
	return defaultNumPredict
}

// trimArticle caps the simplified article and backs off to the last sentence
// boundary so the slot never ends mid-sentence.
func trimArticle(text string) string {
	runes := []rune(text)
	if len(runes) <= maxArticleChars {
		return text
	}
	cut := string(runes[:maxArticleChars])
	if idx := strings.LastIndex(cut, "."); idx >= 0 {
		return cut[:idx+1]
	}
	return cut + "."
}

// prefix returns the first n characters of the content; the prompts embed a
// bounded slice of the article so the backend stays inside its context
// window.
func prefix(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n])
}

func buildPrompt(kind Kind, content string) string {
	switch kind {
	case KindArticle:
		return fmt.Sprintf(articlePrompt, prefix(content, 1200))
	case KindVocabulary:
		return fmt.Sprintf(vocabularyPrompt, prefix(content, 1000))
	case KindGrammar:
		return fmt.Sprintf(grammarPrompt, prefix(content, 800))
	case KindSummary:
		return fmt.Sprintf(summaryPrompt, prefix(content, 1000))
	}
	return ""
}

const articlePrompt = `Simplifie ce texte allemand au niveau A2.

RÈGLES STRICTES:
- Exactement 10-12 phrases
- Chaque phrase: 6-10 mots maximum
- Présent uniquement
- Vocabulaire A2 basique
- PAS de noms propres compliqués

Texte: %s

Écris SEULEMENT le texte allemand simplifié (arrête après 12 phrases):`

const vocabularyPrompt = `Extrait 5 mots allemands UTILES de ce texte (pas de noms propres).

Texte: %s

Format EXACT (une ligne par mot):
1. [mot allemand] = [traduction française]
2. [mot allemand] = [traduction française]
3. [mot allemand] = [traduction française]
4. [mot allemand] = [traduction française]
5. [mot allemand] = [traduction française]

Choisis des VERBES, NOMS ou ADJECTIFS utiles.
Écris UNIQUEMENT les 5 lignes:`

const grammarPrompt = `Trouve UNE règle de grammaire allemande simple dans ce texte.

Texte: %s

Explique en français en 2-3 phrases courtes et claires.
Donne un exemple simple.
Écris UNIQUEMENT l'explication en français:`

const summaryPrompt = `Résume ce texte en français en 3 phrases courtes (40-60 mots total).

Texte: %s

Écris UNIQUEMENT le résumé français (3 phrases):`
