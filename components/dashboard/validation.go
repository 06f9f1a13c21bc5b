package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidForm is matched by every form validation failure.
var ErrInvalidForm = errors.New("dashboard: invalid form")

// FormDefinition couples a JSON schema with user-facing per-field messages.
type FormDefinition struct {
	Code     string
	Schema   map[string]any
	Messages map[string]string
}

// FieldError describes a problem with one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormError lists every invalid field of a submitted form.
type FormError struct {
	Form   string       `json:"form"`
	Fields []FieldError `json:"fields"`
}

func (e *FormError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("dashboard: form %s is invalid (%s)", e.Form, strings.Join(parts, "; "))
}

// Unwrap lets callers match ErrInvalidForm.
func (e *FormError) Unwrap() error { return ErrInvalidForm }

// FormValidator validates form payloads against their definitions.
type FormValidator interface {
	Validate(def FormDefinition, payload any) error
}

// JSONSchemaValidator compiles form schemas once and validates payloads.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

var _ FormValidator = (*JSONSchemaValidator)(nil)

// Validate ensures the payload satisfies the form schema. Payloads are
// round-tripped through JSON so structs and maps validate the same way.
func (v *JSONSchemaValidator) Validate(def FormDefinition, payload any) error {
	if len(def.Schema) == 0 {
		return nil
	}
	schema, err := v.schemaFor(def)
	if err != nil {
		return err
	}
	var doc any = map[string]any{}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("dashboard: marshal %s form: %w", def.Code, err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("dashboard: normalize %s form: %w", def.Code, err)
		}
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &FormError{Form: def.Code, Fields: formFieldErrors(def, verr)}
		}
		return fmt.Errorf("dashboard: %s form failed validation: %w", def.Code, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(def FormDefinition) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[def.Code]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := json.Marshal(def.Schema)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", def.Code, err)
	}
	compiler := jsonschema.NewCompiler()
	name := def.Code + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", def.Code, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", def.Code, err)
	}
	v.mu.Lock()
	v.compiled[def.Code] = compiled
	v.mu.Unlock()
	return compiled, nil
}

func formFieldErrors(def FormDefinition, verr *jsonschema.ValidationError) []FieldError {
	leaves := map[string]string{}
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}
		field := strings.TrimPrefix(e.InstanceLocation, "/")
		if idx := strings.Index(field, "/"); idx >= 0 {
			field = field[:idx]
		}
		if field == "" {
			field = "form"
		}
		if _, seen := leaves[field]; seen {
			return
		}
		if msg, ok := def.Messages[field]; ok {
			leaves[field] = msg
			return
		}
		leaves[field] = e.Message
	}
	walk(verr)
	out := make([]FieldError, 0, len(leaves))
	for field, msg := range leaves {
		out = append(out, FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
