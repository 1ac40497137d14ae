// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package tools holds the registry of Falcon operations and the dispatcher that
// executes them. Both front-ends read the same registry.
package tools

import (
	"fmt"
	"sync"

	"github.com/stacklok/falcon-mcp/pkg/errors"
)

// Registry is an immutable, ordered set of operation descriptors.
type Registry struct {
	descriptors []*Descriptor
	byName      map[string]*Descriptor
}

// NewRegistry builds a registry from descs, compiling each parameter schema.
// Names must be unique.
func NewRegistry(descs ...*Descriptor) (*Registry, error) {
	r := &Registry{
		descriptors: make([]*Descriptor, 0, len(descs)),
		byName:      make(map[string]*Descriptor, len(descs)),
	}
	for _, d := range descs {
		if d.Name == "" {
			return nil, fmt.Errorf("tool with path %s has no name", d.Path)
		}
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", d.Name)
		}
		schema, err := d.compile()
		if err != nil {
			return nil, err
		}
		d.schema = schema
		r.descriptors = append(r.descriptors, d)
		r.byName[d.Name] = d
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(falconTools()...)
	if err != nil {
		panic(fmt.Sprintf("built-in tool registry is invalid: %v", err))
	}
	return r
})

// Default returns the registry of the built-in Falcon operations.
func Default() *Registry {
	return defaultRegistry()
}

// Resolve looks up an operation by name.
func (r *Registry) Resolve(name string) (*Descriptor, error) {
	if d, ok := r.byName[name]; ok {
		return d, nil
	}
	return nil, errors.NewUnknownOperationError(name, r.Names())
}

// List returns the descriptors in registration order.
func (r *Registry) List() []*Descriptor {
	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Names returns the operation names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		names = append(names, d.Name)
	}
	return names
}

// Len returns the number of operations.
func (r *Registry) Len() int {
	return len(r.descriptors)
}
