package services

import "strings"

// BuildRAGPrompt frames question with retrieved context. With no context the
// prompt tells the model there are no relevant documents.
func BuildRAGPrompt(contextChunks []string, question string) string {
	if len(contextChunks) == 0 {
		return "I don't have any relevant documents uploaded to answer this question: " + question +
			"\n\nPlease upload some documents first to use Document Q&A mode."
	}

	var b strings.Builder
	b.WriteString("Based on the following context, answer the question. ")
	b.WriteString("If the context doesn't contain relevant information, say so.\n\n")
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(contextChunks, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
