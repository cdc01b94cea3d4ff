package schemas

import (
	"google.golang.org/genai"
)

// GeminiForTask returns the task schema in the Gemini-native dialect, or
// nil for freeform tasks.
func GeminiForTask(task TaskKind) *genai.Schema {
	generic := ForTask(task)
	if generic == nil {
		return nil
	}
	return ToGeminiSchema(generic)
}

// ToGeminiSchema converts a generic JSON-Schema map to a genai.Schema.
func ToGeminiSchema(params map[string]any) *genai.Schema {
	schema := &genai.Schema{}

	if typeStr, ok := params["type"].(string); ok {
		switch typeStr {
		case "object":
			schema.Type = genai.TypeObject
		case "array":
			schema.Type = genai.TypeArray
		case "string":
			schema.Type = genai.TypeString
		case "number":
			schema.Type = genai.TypeNumber
		case "integer":
			schema.Type = genai.TypeInteger
		case "boolean":
			schema.Type = genai.TypeBoolean
		}
	}

	if props, ok := params["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for name, prop := range props {
			if propMap, ok := prop.(map[string]any); ok {
				schema.Properties[name] = ToGeminiSchema(propMap)
			}
		}
	}

	if items, ok := params["items"].(map[string]any); ok {
		schema.Items = ToGeminiSchema(items)
	}

	if required, ok := params["required"].([]string); ok {
		schema.Required = required
	} else if required, ok := params["required"].([]any); ok {
		for _, r := range required {
			if rs, ok := r.(string); ok {
				schema.Required = append(schema.Required, rs)
			}
		}
	}

	if enum, ok := params["enum"].([]any); ok {
		for _, e := range enum {
			if es, ok := e.(string); ok {
				schema.Enum = append(schema.Enum, es)
			}
		}
	}

	if desc, ok := params["description"].(string); ok {
		schema.Description = desc
	}

	return schema
}
