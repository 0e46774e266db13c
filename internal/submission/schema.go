package submission

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// VerifyPayload checks that raw JSON is a structurally valid submission
// payload before it is accepted downstream (e.g. a pasted tech block from an
// email). It returns the decoded payload on success.
func VerifyPayload(raw []byte) (*Payload, error) {
	schema, err := jsonschema.For[Payload](nil)
	if err != nil {
		return nil, fmt.Errorf("derive submission schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve submission schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("submission is not valid JSON: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return nil, fmt.Errorf("submission does not match schema: %w", err)
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}
	if p.SubmissionID == "" {
		return nil, fmt.Errorf("submission has no submissionId")
	}
	return &p, nil
}
