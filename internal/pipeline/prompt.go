package pipeline

import (
	"fmt"
	"strings"

	"github.com/castela/ragpipe/internal/vectorstore"
)

// contextSeparator joins the retrieved chunks inside the prompt.
const contextSeparator = "\n\n---\n\n"

// answerPrompt directs the model to answer only from the supplied context.
const answerPrompt = `You are a helpful assistant that answers questions based on the provided context.

CONTEXT:
%s

QUESTION:
%s

INSTRUCTIONS:
1. Answer based ONLY on the context provided above.
2. If the context doesn't contain enough information, say so.
3. Be concise but thorough.
4. Cite which source(s) you used when relevant.

ANSWER:`

// buildPrompt assembles the single-turn prompt from the question and the
// retrieved chunks.
func buildPrompt(question string, results []vectorstore.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("[Source: %s]\n%s", r.Source, r.Content)
	}

	return fmt.Sprintf(answerPrompt, strings.Join(parts, contextSeparator), question)
}
