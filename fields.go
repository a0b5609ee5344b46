package dbeam

import (
	"reflect"
	"strings"

	"github.com/kisielk/sqlstruct"
)

// ExprTagName is the struct tag holding the select expression of a field.
const ExprTagName = "expr"

// Field is one entry of a field selection: a column name and an optional
// expression rendered in its place, such as "CAST(b AS STRING)".
type Field struct {
	Name string
	Expr *string
}

// Fields is an ordered field selection. An empty selection means "*".
type Fields []Field

// NewFields returns a selection of plain columns.
func NewFields(names ...string) Fields {
	out := make(Fields, 0, len(names))
	for _, n := range names {
		out = append(out, Field{Name: n})
	}
	return out
}

// Cast returns a pointer to expr, for use as a Field expression.
func Cast(expr string) *string {
	return &expr
}

// With returns a copy of f where name maps to expr. An existing entry keeps
// its position; a new one is appended.
func (f Fields) With(name string, expr *string) Fields {
	out := f.clone()
	for i := range out {
		if out[i].Name == name {
			out[i].Expr = cloneString(expr)
			return out
		}
	}
	return append(out, Field{Name: name, Expr: cloneString(expr)})
}

// Names returns the field names in order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

// SelectExpression renders the projection list of a SELECT statement. Each
// field renders as its expression when one is set and as its name otherwise.
// Names and expressions are written verbatim.
func (f Fields) SelectExpression() string {
	parts := make([]string, len(f))
	for i, field := range f {
		if field.Expr != nil {
			parts[i] = *field.Expr
			continue
		}
		parts[i] = field.Name
	}
	return strings.Join(parts, ",")
}

func (f Fields) clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for i, field := range f {
		out[i] = Field{Name: field.Name, Expr: cloneString(field.Expr)}
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// FieldsFromStruct builds a field selection from the exported fields of T.
//
// Fields are mapped to column names using the `sql` struct tag; if absent, the
// field name is converted to snake_case. Fields tagged `sql:"-"` are skipped.
// An `expr` tag sets the expression selected for the column. Embedded structs
// contribute their own fields in place, matching sqlstruct.Scan.
func FieldsFromStruct[T any]() Fields {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}
	return structFields(typ, nil)
}

func structFields(typ reflect.Type, out Fields) Fields {
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get(sqlstruct.TagName)
		// Skip unexported fields
		if f.PkgPath != "" || tag == "-" {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			out = structFields(f.Type, out)
			continue
		}
		if tag == "" {
			tag = sqlstruct.ToSnakeCase(f.Name)
		}
		field := Field{Name: tag}
		if expr, ok := f.Tag.Lookup(ExprTagName); ok && expr != "" {
			field.Expr = Cast(expr)
		}
		out = append(out, field)
	}
	return out
}
