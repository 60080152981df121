package retrieval

import (
	"strings"
	"testing"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
)

func doc(title, content string) *entity.Document {
	return &entity.Document{
		Id:      uuid.New(),
		Title:   title,
		Content: content,
		Source:  "manual",
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "stopwords and short terms removed",
			input: "what is the and of",
			want:  []string{},
		},
		{
			name:  "lowercased and punctuation stripped",
			input: "Japan, TRIP! next-spring",
			want:  []string{"japan", "trip", "next-spring"},
		},
		{
			name:  "duplicates collapsed",
			input: "tokyo tokyo tokyo hotels",
			want:  []string{"tokyo", "hotels"},
		},
		{
			name:  "two character terms dropped",
			input: "go ai backend",
			want:  []string{"backend"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSearchStopwordOnlyQuery(t *testing.T) {
	s := NewSearcher()
	docs := []*entity.Document{doc("Anything", "content here")}

	if got := s.Search(docs, "what is the and of", 3); len(got) != 0 {
		t.Errorf("stopword-only query returned %d items, want 0", len(got))
	}
}

func TestSearchNoDocuments(t *testing.T) {
	s := NewSearcher()
	if got := s.Search(nil, "tokyo hotels", 3); got != nil {
		t.Errorf("empty document set returned %v, want nil", got)
	}
}

func TestSearchMatchConfidence(t *testing.T) {
	s := NewSearcher()
	docs := []*entity.Document{
		doc("Japan Travel Notes", "Booked hotels in Tokyo near Shinjuku. The ryokan in Kyoto is confirmed for April."),
		doc("Grocery List", "Milk, eggs, bread, coffee beans."),
	}

	got := s.Search(docs, "hotels in tokyo", 3)
	if len(got) != 1 {
		t.Fatalf("Search returned %d items, want 1", len(got))
	}
	item := got[0]
	if item.Title != "Japan Travel Notes" {
		t.Errorf("matched %q, want Japan Travel Notes", item.Title)
	}
	if item.Confidence < 0.5 || item.Confidence > 1.0 {
		t.Errorf("confidence = %v, want within [0.5, 1.0]", item.Confidence)
	}
	if !strings.Contains(strings.ToLower(item.Snippet), "hotels") {
		t.Errorf("snippet %q does not contain the matched term", item.Snippet)
	}
}

func TestSearchMatchedFractionThreshold(t *testing.T) {
	s := NewSearcher()
	docs := []*entity.Document{
		doc("Recipes", "Pasta carbonara with guanciale and pecorino."),
	}

	// Only one of four meaningful terms matches: below the 50% floor.
	got := s.Search(docs, "pasta quantum relativity thermodynamics", 3)
	if len(got) != 0 {
		t.Errorf("expected no results below matched-term floor, got %d", len(got))
	}
}

func TestSearchRanksByScore(t *testing.T) {
	s := NewSearcher()
	strong := doc("Tokyo Guide", "Tokyo tokyo tokyo, districts of Tokyo explained.")
	weak := doc("Asia Overview", "A single mention of tokyo among other cities.")

	got := s.Search([]*entity.Document{weak, strong}, "tokyo", 3)
	if len(got) != 2 {
		t.Fatalf("Search returned %d items, want 2", len(got))
	}
	if got[0].Title != "Tokyo Guide" {
		t.Errorf("top result = %q, want Tokyo Guide", got[0].Title)
	}
}

func TestSearchLimit(t *testing.T) {
	s := NewSearcher()
	docs := []*entity.Document{
		doc("Tokyo One", "tokyo travel"),
		doc("Tokyo Two", "tokyo food"),
		doc("Tokyo Three", "tokyo districts"),
		doc("Tokyo Four", "tokyo museums"),
	}

	if got := s.Search(docs, "tokyo", 2); len(got) != 2 {
		t.Errorf("Search returned %d items, want limit 2", len(got))
	}
}

func TestSnippetWindow(t *testing.T) {
	padding := strings.Repeat("x", 300)
	content := padding + " needle " + padding
	s := NewSearcher()
	docs := []*entity.Document{doc("Haystack", content)}

	got := s.Search(docs, "needle", 1)
	if len(got) != 1 {
		t.Fatalf("Search returned %d items, want 1", len(got))
	}
	if !strings.Contains(got[0].Snippet, "needle") {
		t.Errorf("snippet does not contain match: %q", got[0].Snippet)
	}
	if len(got[0].Snippet) > snippetBefore+snippetAfter+10 {
		t.Errorf("snippet length %d exceeds window", len(got[0].Snippet))
	}
}
