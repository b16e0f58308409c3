package disclosure

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fintrid/tridcheck/internal/common"
)

// ValidateAgainstSchema validates raw JSON against the given schema map. It is
// applied at the ingestion boundary so that malformed extractor output is
// rejected before the reconciliation core sees it.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := sonic.Marshal(schemaMap)
	if err != nil {
		return common.WrapError(err, "marshal schema")
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("fee_record.json", bytes.NewReader(b)); err != nil {
		return common.WrapError(err, "add schema resource")
	}
	schema, err := compiler.Compile("fee_record.json")
	if err != nil {
		return common.WrapError(err, "compile schema")
	}

	var v any
	if err := sonic.Unmarshal(data, &v); err != nil {
		return common.WrapError(err, "unmarshal fee record")
	}
	if err := schema.Validate(v); err != nil {
		msg := "fee record does not match schema"
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			msg = formatValidationError(ve)
		}
		slog.Warn("disclosure.validate.failed", "error", msg)
		return common.NewAppError("VALIDATION_ERROR", msg, common.ErrValidation)
	}
	return nil
}

func formatValidationError(ve *jsonschema.ValidationError) string {
	leaves := collectLeafErrors(ve)
	parts := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		loc := leaf.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", loc, leaf.Message))
	}
	return strings.Join(parts, "; ")
}

func collectLeafErrors(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range ve.Causes {
		leaves = append(leaves, collectLeafErrors(cause)...)
	}
	return leaves
}
