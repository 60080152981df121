package retrieval

// Common words carrying no retrieval signal. Matches the conversational
// register of chat queries, so verbs like "tell" and "know" are included
// alongside the usual articles and pronouns.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {},
	"may": {}, "might": {}, "must": {}, "shall": {}, "can": {}, "need": {},
	"dare": {}, "ought": {}, "used": {},
	"to": {}, "of": {}, "in": {}, "for": {}, "on": {}, "with": {}, "at": {},
	"by": {}, "from": {}, "as": {}, "into": {},
	"through": {}, "during": {}, "before": {}, "after": {}, "above": {},
	"below": {}, "between": {},
	"and": {}, "but": {}, "or": {}, "nor": {}, "so": {}, "yet": {},
	"both": {}, "either": {}, "neither": {},
	"not": {}, "only": {}, "own": {}, "same": {}, "than": {}, "too": {},
	"very": {}, "just": {}, "also": {},
	"what": {}, "which": {}, "who": {}, "whom": {}, "this": {}, "that": {},
	"these": {}, "those": {},
	"i": {}, "me": {}, "my": {}, "myself": {}, "we": {}, "our": {}, "ours": {},
	"ourselves": {}, "you": {}, "your": {},
	"he": {}, "him": {}, "his": {}, "she": {}, "her": {}, "hers": {},
	"it": {}, "its": {}, "they": {}, "them": {}, "their": {},
	"am": {}, "about": {}, "tell": {}, "give": {}, "know": {}, "think": {},
	"want": {}, "like": {}, "how": {}, "when": {}, "where": {}, "why": {},
}

func isStopword(term string) bool {
	_, ok := stopwords[term]
	return ok
}
