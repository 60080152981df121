// Package retrieval ranks a user's documents against a chat query with
// TF-IDF scoring and returns citable snippets. It is purely lexical: no
// embeddings, no network calls, deterministic for a given document set.
package retrieval

import (
	"math"
	"sort"
	"strings"

	"ai-chat-be/internal/entity"
)

const (
	// DefaultLimit is how many evidence items a search returns by default.
	DefaultLimit = 3

	// minNormalizedScore drops documents whose per-query-term score is too
	// weak to cite. Tuned empirically against short personal documents.
	minNormalizedScore = 0.3

	// minMatchedFraction requires at least half of the query's meaningful
	// terms to appear in a document.
	minMatchedFraction = 0.5

	// titleWeight counts title occurrences double.
	titleWeight = 2

	snippetBefore = 80
	snippetAfter  = 120
)

type Searcher struct{}

func NewSearcher() *Searcher {
	return &Searcher{}
}

// Tokenize lowercases, strips non-alphanumerics (keeping hyphens), and drops
// stopwords and terms of two characters or fewer. The result is de-duplicated
// in first-seen order.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		term := strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
				return r
			}
			return -1
		}, f)
		if len(term) <= 2 || isStopword(term) {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

type scoredDoc struct {
	item  entity.EvidenceItem
	score float64
}

// Search scores docs against query and returns up to limit evidence items
// sorted by descending score. An empty result means "no citation found",
// never an error: stopword-only queries and empty document sets both yield
// nil.
func (s *Searcher) Search(docs []*entity.Document, query string, limit int) []entity.EvidenceItem {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(docs) == 0 {
		return nil
	}

	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	// Document frequency per query term, for the IDF component.
	df := make(map[string]int, len(terms))
	type docText struct {
		title   string
		content string
	}
	lowered := make([]docText, len(docs))
	for i, doc := range docs {
		lowered[i] = docText{
			title:   strings.ToLower(doc.Title),
			content: strings.ToLower(doc.Content),
		}
		for _, term := range terms {
			if strings.Contains(lowered[i].title, term) || strings.Contains(lowered[i].content, term) {
				df[term]++
			}
		}
	}

	n := float64(len(docs))
	idf := func(term string) float64 {
		return math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	scored := make([]scoredDoc, 0, len(docs))
	for i, doc := range docs {
		var score float64
		matched := 0
		firstIdx := -1

		for _, term := range terms {
			titleCount := strings.Count(lowered[i].title, term)
			contentCount := strings.Count(lowered[i].content, term)
			tf := titleWeight*titleCount + contentCount
			if tf == 0 {
				continue
			}
			matched++
			// Log-damped term frequency keeps one dense document from
			// drowning out everything else.
			score += (1 + math.Log(float64(tf))) * idf(term)

			if idx := strings.Index(lowered[i].content, term); idx >= 0 && (firstIdx == -1 || idx < firstIdx) {
				firstIdx = idx
			}
		}

		if matched == 0 {
			continue
		}

		normalized := score / float64(len(terms))
		fraction := float64(matched) / float64(len(terms))
		if normalized < minNormalizedScore || fraction < minMatchedFraction {
			continue
		}

		scored = append(scored, scoredDoc{
			item: entity.EvidenceItem{
				DocumentId: doc.Id.String(),
				Title:      doc.Title,
				Citation:   doc.Title,
				Snippet:    snippet(doc.Content, firstIdx),
				Confidence: math.Round(fraction*100) / 100,
				Source:     doc.Source,
			},
			score: normalized,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].item.Confidence > scored[j].item.Confidence
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	items := make([]entity.EvidenceItem, len(scored))
	for i, sd := range scored {
		items[i] = sd.item
	}
	return items
}

// snippet returns a window of content centered on the first matched term, or
// the document head when the match was title-only.
func snippet(content string, matchIdx int) string {
	if matchIdx < 0 {
		end := min(200, len(content))
		return content[:end]
	}
	start := max(0, matchIdx-snippetBefore)
	end := min(len(content), matchIdx+snippetAfter)
	return content[start:end]
}
