package llm

import (
	"strings"

	"github.com/joseph-ayodele/medocs/constants"
	"github.com/joseph-ayodele/medocs/internal/entity"
)

// BuildSemanticSearchPrompt lists the corpus (name, type, date, summary, tags)
// and asks for a JSON array of relevant documents.
func BuildSemanticSearchPrompt(query string, corpus []entity.StoredDocument) string {
	var b strings.Builder
	b.WriteString("You are a medical records assistant. Given the documents below, find the ones relevant to the query.\n")
	b.WriteString("Return ONLY a JSON array. Each element must be an object with the keys ")
	b.WriteString(`"documentName" (exactly as listed), "date" (YYYY-MM-DD) and "content" (one or two sentences explaining the relevance). `)
	b.WriteString("Return [] when nothing is relevant.\n\n")
	b.WriteString("Query: ")
	b.WriteString(strings.TrimSpace(query))
	b.WriteString("\n\nDocuments:\n")
	for i, d := range corpus {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- name: ")
		b.WriteString(d.Name)
		b.WriteString("\n  type: ")
		b.WriteString(d.Type.Label())
		b.WriteString("\n  date: ")
		b.WriteString(d.Date.Format(entity.DateLayout))
		if s := entity.StrOrEmpty(d.Summary); s != "" {
			b.WriteString("\n  summary: ")
			b.WriteString(TruncateRunes(s, constants.PromptContentLimit))
		}
		if len(d.Tags) > 0 {
			b.WriteString("\n  tags: ")
			b.WriteString(strings.Join(d.Tags, ", "))
		}
	}
	return b.String()
}

// BuildEnhancePrompt asks for a short answer to the query grounded in one document.
func BuildEnhancePrompt(query string, doc entity.StoredDocument) string {
	body := entity.StrOrEmpty(doc.Content)
	if strings.TrimSpace(body) == "" {
		body = entity.StrOrEmpty(doc.Summary)
	}
	var b strings.Builder
	b.WriteString("Answer the question in 2-3 sentences using only the medical document below. ")
	b.WriteString("If the document does not answer it, say what the document does contain.\n\n")
	b.WriteString("Question: ")
	b.WriteString(strings.TrimSpace(query))
	b.WriteString("\n\nDocument: ")
	b.WriteString(doc.Name)
	b.WriteString(" (")
	b.WriteString(doc.Type.Label())
	b.WriteString(", ")
	b.WriteString(doc.Date.Format(entity.DateLayout))
	b.WriteString(")\n")
	b.WriteString(TruncateRunes(body, constants.PromptContentLimit))
	return b.String()
}

// BuildSummaryPrompt asks for a one-paragraph summary of recognized text.
func BuildSummaryPrompt(docType constants.DocumentType, text string) string {
	var b strings.Builder
	b.WriteString("Summarize this ")
	b.WriteString(strings.ToLower(docType.Label()))
	b.WriteString(" in at most three sentences for a patient's personal records. ")
	b.WriteString("Mention medications, dosages, test results and providers when present. Plain text only.\n\n")
	b.WriteString(TruncateRunes(text, constants.PromptContentLimit))
	return b.String()
}

// VisionOCRPrompt is sent alongside the image for cloud recognition.
const VisionOCRPrompt = "Transcribe all text in this medical document image exactly as written, keeping line breaks. " +
	`Return ONLY a JSON object {"text": "<transcription>", "confidence": <0..1 estimate of transcription accuracy>}.`

// TruncateRunes caps s at n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
