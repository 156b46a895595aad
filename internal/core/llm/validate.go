package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/medocs/internal/common"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// DecodeResponse pulls the first JSON value out of a model reply, checks it
// against schemaMap and decodes it into out. Every failure wraps common.ErrParse.
func DecodeResponse(reply string, schemaMap map[string]any, out any) error {
	raw, ok := ExtractJSON(reply)
	if !ok {
		return fmt.Errorf("%w: no JSON value in response", common.ErrParse)
	}
	if err := ValidateJSONAgainstSchema(schemaMap, []byte(raw)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	return nil
}
