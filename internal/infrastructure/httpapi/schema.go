package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	apperrors "github.com/reglet-dev/voyage/internal/application/errors"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const fetchRequestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "url": {"type": "string"}
  },
  "required": ["url"]
}`

// maxRequestBody caps the JSON body of a fetch request.
const maxRequestBody = 1 << 20

// compileFetchSchema compiles the fetch request schema.
func compileFetchSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("fetch-request.json", bytes.NewReader([]byte(fetchRequestSchema))); err != nil {
		return nil, fmt.Errorf("failed to add fetch request schema: %w", err)
	}

	schema, err := compiler.Compile("fetch-request.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile fetch request schema: %w", err)
	}
	return schema, nil
}

// decodeFetchRequest extracts the target URL from a fetch request body.
//
// An empty body or a document without a string "url" is a missing URL. A body
// that is not JSON at all is an invalid body. An empty "url" string is passed
// through so the guard reports it as an invalid format.
func decodeFetchRequest(schema *jsonschema.Schema, body io.Reader) (string, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return "", apperrors.NewInputError(apperrors.MsgURLRequired)
		}
		return "", apperrors.NewInputError(apperrors.MsgInvalidRequestBody)
	}

	if err := schema.Validate(doc); err != nil {
		return "", apperrors.NewInputError(apperrors.MsgURLRequired)
	}

	obj, _ := doc.(map[string]interface{})
	target, _ := obj["url"].(string)
	return target, nil
}
