package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var EmotionReportSchema = generateSchema[EmotionReport]()

// StructuredOutputsResponseFormat constrains a chat completion to the
// EmotionReport schema. Used by the analyzer's strict mode; the marker
// format stays the wire contract for models without structured outputs.
func StructuredOutputsResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "emotion_report",
		Description: openai.String("Basic emotions and a companion reply extracted from emotional text"),
		Schema:      EmotionReportSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
