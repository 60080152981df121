package service

import (
	"testing"

	"ai-chat-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSessionTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "short message kept verbatim",
			content: "Hello there",
			want:    "Hello there",
		},
		{
			name:    "long message truncated at word budget",
			content: "Can you help me plan a trip to Japan next spring?",
			want:    "Can you help me plan a trip to…",
		},
		{
			name:    "whitespace runs collapse",
			content: "  Hello \n   world  ",
			want:    "Hello world",
		},
		{
			name:    "blank content falls back to placeholder",
			content: "   \n\t ",
			want:    constant.DefaultSessionTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSessionTitle(tt.content))
		})
	}
}

func TestDeriveSessionTitleCharBudget(t *testing.T) {
	// Eight words but far past the character budget.
	content := "supercalifragilistic expialidocious pneumonoultramicroscopic silicovolcanoconiosis antidisestablishmentarianism floccinaucinihilipilification honorificabilitudinitatibus sesquipedalianism"
	title := DeriveSessionTitle(content)

	assert.LessOrEqual(t, len(title), constant.TitleMaxChars+len("…"))
	assert.Contains(t, title, "…")
}
