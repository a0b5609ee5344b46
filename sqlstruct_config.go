package dbeam

import "github.com/kisielk/sqlstruct"

// The init function sets up the sqlstruct package so that FieldsFromStruct and
// row scanning agree on column names: the "sql" tag names a column, and
// untagged fields map to their snake_case name.
func init() {
	sqlstruct.TagName = "sql"
	sqlstruct.NameMapper = sqlstruct.ToSnakeCase
}
