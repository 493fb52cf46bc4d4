package pipeline

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiExtractor asks Gemini to read a statement document and return its
// fields as JSON.
type GeminiExtractor struct {
	client *GeminiClient
}

// Extract sends doc inline together with the extraction prompt.
func (e *GeminiExtractor) Extract(ctx context.Context, doc *Document) (Extraction, error) {
	out := Extraction{ModelUsed: true}
	if doc == nil {
		return out, fmt.Errorf("GeminiExtractor.Extract: nil document")
	}

	text, err := e.client.generate(ctx, e.client.extractTimeout,
		genai.NewPartFromBytes(doc.Data, doc.MIMEType),
		genai.NewPartFromText(e.client.extractionPrompt),
	)
	if err != nil {
		return out, fmt.Errorf("GeminiExtractor.Extract: %s: %w", doc.Name, err)
	}
	out.RawText = text

	obj, err := decodeModelObject(text)
	if err != nil {
		return out, fmt.Errorf("GeminiExtractor.Extract: %w", err)
	}
	fields, err := fieldsOf(obj)
	if err != nil {
		return out, fmt.Errorf("GeminiExtractor.Extract: %w", err)
	}
	out.Fields = fields
	return out, nil
}
