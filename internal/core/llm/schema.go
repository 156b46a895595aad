package llm

// SemanticResultsSchema describes the array the semantic search prompt asks for.
func SemanticResultsSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"documentName": map[string]any{"type": "string", "minLength": 1},
				"date":         map[string]any{"type": "string"},
				"content":      map[string]any{"type": "string"},
			},
			"required": []string{"documentName", "content"},
		},
	}
}

// VisionTextSchema describes the cloud OCR response object.
func VisionTextSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"text":       map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"text"},
	}
}
