package lesson

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/p-n-ai/deepblue/internal/ai"
)

// Schema is the structured-output contract sent with every lesson request.
// Any backend substitution must keep this shape.
var Schema = &ai.Schema{
	Type: ai.TypeObject,
	Properties: map[string]*ai.Schema{
		"title":        {Type: ai.TypeString, Description: "The title of the lesson."},
		"introduction": {Type: ai.TypeString, Description: "A hook to get the user interested."},
		"coreContent": {
			Type:        ai.TypeString,
			Description: "Detailed educational content in Markdown format. Use bullet points, bold text, and clear paragraphs.",
		},
		"safetyTip": {Type: ai.TypeString, Description: "A crucial safety tip related to this specific topic."},
		"quiz": {
			Type: ai.TypeArray,
			Items: &ai.Schema{
				Type: ai.TypeObject,
				Properties: map[string]*ai.Schema{
					"question":     {Type: ai.TypeString},
					"options":      {Type: ai.TypeArray, Items: &ai.Schema{Type: ai.TypeString}},
					"correctIndex": {Type: ai.TypeInteger, Description: "Zero-based index of the correct option."},
					"explanation":  {Type: ai.TypeString, Description: "Why this answer is correct."},
				},
				Required:         []string{"question", "options", "correctIndex", "explanation"},
				PropertyOrdering: []string{"question", "options", "correctIndex", "explanation"},
			},
		},
	},
	Required:         []string{"title", "introduction", "coreContent", "safetyTip", "quiz"},
	PropertyOrdering: []string{"title", "introduction", "coreContent", "safetyTip", "quiz"},
}

// validationDocument is the contract as JSON Schema, tightened with the rules
// a usable lesson needs: no blank text, at least one question, at least two
// options and a non-negative answer index.
func validationDocument() map[string]any {
	doc := Schema.JSONSchema()
	props := doc["properties"].(map[string]any)
	requireText(props, "title", "introduction", "coreContent", "safetyTip")

	quiz := props["quiz"].(map[string]any)
	quiz["minItems"] = 1

	item := quiz["items"].(map[string]any)
	itemProps := item["properties"].(map[string]any)
	requireText(itemProps, "question", "explanation")

	options := itemProps["options"].(map[string]any)
	options["minItems"] = 2
	options["items"].(map[string]any)["minLength"] = 1
	itemProps["correctIndex"].(map[string]any)["minimum"] = 0

	return doc
}

func requireText(props map[string]any, names ...string) {
	for _, name := range names {
		props[name].(map[string]any)["minLength"] = 1
	}
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(validationDocument()))
})

// validatePayload checks raw backend output against the contract.
func validatePayload(payload []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile lesson schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("payload is not JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("payload violates lesson schema: %s", strings.Join(msgs, "; "))
}
