package service

import (
	"strings"

	"ai-chat-be/internal/constant"
)

// DeriveSessionTitle builds a session title from the first user message:
// the first few words, capped by word and character budgets, with an
// ellipsis when anything was dropped. Whitespace runs collapse to one space.
func DeriveSessionTitle(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return constant.DefaultSessionTitle
	}

	truncated := false
	if len(fields) > constant.TitleMaxWords {
		fields = fields[:constant.TitleMaxWords]
		truncated = true
	}

	title := strings.Join(fields, " ")
	if len(title) > constant.TitleMaxChars {
		title = strings.TrimRight(title[:constant.TitleMaxChars], " ")
		truncated = true
	}

	if truncated {
		title += "…"
	}
	return title
}
