package dbeam

import (
	"fmt"
	"strings"
)

// ClauseType represents a part of a generated SELECT statement.
type ClauseType string

const (
	ClauseSelect ClauseType = "SELECT"
	ClauseWhere  ClauseType = "WHERE"
	ClauseLimit  ClauseType = "LIMIT"
)

// SqlClause represents a SQL clause before rendering.
//
// Columns holds the already rendered projection of a SELECT clause. Expr is
// the condition of a WHERE clause and Limit the row count of a LIMIT clause.
type SqlClause struct {
	Type      ClauseType
	TableName string
	Columns   string
	Expr      string
	Limit     int
}

// Write renders an individual SQL clause to a string.
func (c SqlClause) Write() (string, error) {
	switch c.Type {
	case ClauseSelect:
		return fmt.Sprintf("SELECT %s FROM %s", c.Columns, c.TableName), nil
	case ClauseWhere:
		return fmt.Sprintf("WHERE %s", c.Expr), nil
	case ClauseLimit:
		return fmt.Sprintf("LIMIT %d", c.Limit), nil
	default:
		return "", NewErrInvalidClause(string(c.Type))
	}
}

// SQLStatement represents a sequence of SQL clauses forming a statement.
type SQLStatement struct {
	Clauses []SqlClause
}

func selectFrom(tableName, columns string) SQLStatement {
	return SQLStatement{Clauses: []SqlClause{{
		Type:      ClauseSelect,
		TableName: tableName,
		Columns:   columns,
	}}}
}

// Where appends a WHERE clause to the statement.
func (s SQLStatement) Where(expr string) SQLStatement {
	s.Clauses = append(s.Clauses, SqlClause{Type: ClauseWhere, Expr: expr})
	return s
}

// Limit appends a LIMIT clause to the statement. The value is rendered as is.
func (s SQLStatement) Limit(n int) SQLStatement {
	s.Clauses = append(s.Clauses, SqlClause{Type: ClauseLimit, Limit: n})
	return s
}

// Write renders the complete SQL statement, joining clauses with a single space.
// No trailing semicolon is added.
func (s SQLStatement) Write() (string, error) {
	parts := make([]string, 0, len(s.Clauses))
	for _, c := range s.Clauses {
		part, err := c.Write()
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " "), nil
}

func (s SQLStatement) mustWrite() string {
	out, err := s.Write()
	if err != nil {
		panic(err)
	}
	return out
}
