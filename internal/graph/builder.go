package graph

import (
	"reflect"
	"strings"
)

// Statement is one parameterized Cypher write.
type Statement struct {
	Cypher string
	Params map[string]any
}

// Builder assembles a write statement from a base template and clauses that
// are appended only when the data they write is present, so absent optional
// attributes are never written as null.
type Builder struct {
	clauses []string
	params  map[string]any
}

// NewBuilder starts a statement from its base template.
func NewBuilder(base string) *Builder {
	return &Builder{
		clauses: []string{strings.TrimSpace(base)},
		params:  make(map[string]any),
	}
}

// Param binds $name. Pointers are dereferenced; nil pointers bind null.
func (b *Builder) Param(name string, value any) *Builder {
	b.params[name] = deref(value)
	return b
}

// Clause appends an unconditional clause.
func (b *Builder) Clause(clause string) *Builder {
	b.clauses = append(b.clauses, strings.TrimSpace(clause))
	return b
}

// When appends clause only if cond holds.
func (b *Builder) When(cond bool, clause string) *Builder {
	if cond {
		b.Clause(clause)
	}
	return b
}

// Optional appends clause and binds $name only when value is present.
// Nil interfaces, nil pointers, nil or empty slices and maps are absent.
func (b *Builder) Optional(name string, value any, clause string) *Builder {
	if isAbsent(value) {
		return b
	}
	b.Param(name, value)
	return b.Clause(clause)
}

// Has reports whether $name has been bound.
func (b *Builder) Has(name string) bool {
	_, ok := b.params[name]
	return ok
}

// Statement renders the assembled write.
func (b *Builder) Statement() Statement {
	params := make(map[string]any, len(b.params))
	for k, v := range b.params {
		params[k] = v
	}
	return Statement{
		Cypher: strings.Join(b.clauses, "\n"),
		Params: params,
	}
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	}
	return false
}

func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return v
	}
	if rv.IsNil() {
		return nil
	}
	return rv.Elem().Interface()
}
