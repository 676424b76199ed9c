package tools

import (
	"context"
	"math"
	"strings"

	"github.com/stridelabs/coach-gateway/internal/knowledge"
)

const (
	knowledgeDefaultMatches = 3
	knowledgeMaxMatches     = 10
)

// KnowledgeTool implements search_knowledge: semantic search over the
// coaching knowledge base, delegated to the embedding service.
type KnowledgeTool struct {
	base
	searcher knowledge.Searcher
}

func NewKnowledgeTool(searcher knowledge.Searcher) *KnowledgeTool {
	return &KnowledgeTool{
		base: newBase(Definition{
			Name:        "search_knowledge",
			Description: "Search the coaching knowledge base for training methodology, physiology and planning guidance.",
			Properties: map[string]Property{
				"query":       {Type: "string", Description: "Natural-language search query."},
				"match_count": {Type: "number", Description: "Number of matches to return, 1-10. Defaults to 3."},
			},
			Required: []string{"query"},
		}),
		searcher: searcher,
	}
}

func (t *KnowledgeTool) Handle(ctx context.Context, athleteID string, input map[string]any) Result {
	if res := t.validateInput(input); res != nil {
		return *res
	}
	query, _ := stringArg(input, "query")
	if strings.TrimSpace(query) == "" {
		return Fail(CodeInvalidInput, "query must be a non-empty string")
	}

	matchCount := knowledgeDefaultMatches
	if raw, ok := numberArg(input, "match_count"); ok {
		matchCount = int(math.Round(raw))
		if matchCount < 1 {
			matchCount = 1
		}
		if matchCount > knowledgeMaxMatches {
			matchCount = knowledgeMaxMatches
		}
	}

	matches, err := t.searcher.Search(ctx, query, matchCount)
	if err != nil {
		return failureFrom(err, "SEARCH_KNOWLEDGE_ERROR")
	}
	return OK(map[string]any{
		"query":   query,
		"count":   len(matches),
		"matches": matches,
	})
}
