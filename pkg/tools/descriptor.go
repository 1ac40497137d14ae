// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/stacklok/falcon-mcp/pkg/credentials"
	"github.com/stacklok/falcon-mcp/pkg/errors"
)

// Shape classifies what an operation does upstream.
type Shape string

const (
	// ShapeQuery is a filtered list query returning ids.
	ShapeQuery Shape = "query"
	// ShapeLookup is a bulk lookup of entities by id.
	ShapeLookup Shape = "lookup"
	// ShapeMutation changes upstream state.
	ShapeMutation Shape = "mutation"
)

// ParamType is the JSON type of a parameter.
type ParamType string

const (
	// TypeString is a JSON string.
	TypeString ParamType = "string"
	// TypeInteger is a whole JSON number.
	TypeInteger ParamType = "integer"
	// TypeBoolean is a JSON boolean.
	TypeBoolean ParamType = "boolean"
	// TypeStringList is a JSON array of strings.
	TypeStringList ParamType = "array"
)

// Param declares one operation parameter.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	// Default is forwarded when the parameter is absent.
	Default any
	// Minimum and Maximum bound integer parameters.
	Minimum *int
	Maximum *int
	// Upstream is the field name sent to the vendor API. Empty means Name.
	Upstream string
}

func (p Param) upstreamName() string {
	if p.Upstream != "" {
		return p.Upstream
	}
	return p.Name
}

// Schema returns the JSON Schema fragment describing p.
func (p Param) Schema() map[string]any {
	s := map[string]any{
		"type":        string(p.Type),
		"description": p.Description,
	}
	switch p.Type {
	case TypeStringList:
		s["items"] = map[string]any{"type": "string"}
		if p.Required {
			s["minItems"] = 1
		}
	case TypeString:
		if p.Required {
			s["minLength"] = 1
		}
	case TypeInteger, TypeBoolean:
	}
	if p.Minimum != nil {
		s["minimum"] = *p.Minimum
	}
	if p.Maximum != nil {
		s["maximum"] = *p.Maximum
	}
	if p.Default != nil {
		s["default"] = p.Default
	}
	return s
}

// Descriptor is one registry entry. The same descriptor backs a tool on
// every front-end.
type Descriptor struct {
	Name        string
	Description string
	Method      string
	Path        string
	Shape       Shape
	Params      []Param

	schema *gojsonschema.Schema
}

// Endpoint returns the REST path that invokes the operation.
func (d *Descriptor) Endpoint() string {
	return "/tools/" + d.Name
}

// Properties returns the JSON Schema properties of the operation parameters.
func (d *Descriptor) Properties() map[string]any {
	props := make(map[string]any, len(d.Params))
	for _, p := range d.Params {
		props[p.Name] = p.Schema()
	}
	return props
}

// Required returns the names of the required parameters in declaration order.
func (d *Descriptor) Required() []string {
	var required []string
	for _, p := range d.Params {
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return required
}

// InputSchema returns the complete JSON Schema for the operation parameters.
func (d *Descriptor) InputSchema() map[string]any {
	s := map[string]any{
		"type":                 "object",
		"properties":           d.Properties(),
		"additionalProperties": false,
	}
	if required := d.Required(); len(required) > 0 {
		s["required"] = required
	}
	return s
}

// CallSchema extends InputSchema with the optional credential fields accepted
// alongside the parameters on every front-end.
func (d *Descriptor) CallSchema() map[string]any {
	schema := d.InputSchema()
	props := schema["properties"].(map[string]any)
	props[credentials.ParamAPIKey] = map[string]any{
		"type":        "string",
		"description": "CrowdStrike API key as client_id or client_id:client_secret (or set FALCON_API_KEY)",
	}
	props[credentials.ParamTenantID] = map[string]any{
		"type":        "string",
		"description": "Tenant ID for multi-tenant scenarios (or set FALCON_TENANT_ID)",
	}
	return schema
}

func (d *Descriptor) compile() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(d.InputSchema()))
	if err != nil {
		return nil, fmt.Errorf("invalid schema for tool %s: %w", d.Name, err)
	}
	return schema, nil
}

// Validate checks params against the operation schema.
func (d *Descriptor) Validate(params map[string]any) error {
	if params == nil {
		params = map[string]any{}
	}
	schema := d.schema
	if schema == nil {
		var err error
		if schema, err = d.compile(); err != nil {
			return errors.NewInternalError("failed to compile parameter schema", err)
		}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(params))
	if err != nil {
		return errors.NewInvalidParametersError("parameters could not be read", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.NewInvalidParametersError(
		fmt.Sprintf("invalid parameters for %s: %s", d.Name, strings.Join(msgs, "; ")), nil)
}

// Request validates params and shapes them into the upstream query string and
// JSON body. GET and DELETE carry everything in the query, POST and PUT in the
// body. Null and absent parameters fall back to their default or are left
// out; empty strings, empty lists and zero integers are never forwarded.
func (d *Descriptor) Request(params map[string]any) (url.Values, map[string]any, error) {
	params = withoutNulls(params)
	if err := d.Validate(params); err != nil {
		return nil, nil, err
	}

	inBody := d.Method == http.MethodPost || d.Method == http.MethodPut
	query := url.Values{}
	var body map[string]any
	if inBody {
		body = map[string]any{}
	}

	for _, p := range d.Params {
		v, ok := params[p.Name]
		if !ok {
			if p.Default == nil {
				continue
			}
			v = p.Default
		}
		if isZero(v) {
			continue
		}
		if inBody {
			body[p.upstreamName()] = v
			continue
		}
		s, err := queryValue(v)
		if err != nil {
			return nil, nil, errors.NewInvalidParametersError(
				fmt.Sprintf("parameter %s cannot be sent as a query value", p.Name), err)
		}
		query.Set(p.upstreamName(), s)
	}

	if len(query) == 0 {
		query = nil
	}
	return query, body, nil
}

func withoutNulls(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func isZero(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case json.Number:
		return t.String() == "0"
	default:
		return false
	}
}

// queryValue renders v for a query string. Lists are comma-joined in order.
func queryValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case []string:
		return strings.Join(t, ","), nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, err := queryValue(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}
