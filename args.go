package dbeam

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// QueryBuilderArgs describes which rows of a table an extraction reads. It is
// immutable once created; use With to derive a modified copy.
type QueryBuilderArgs struct {
	tableName       string
	limit           *int
	partitionColumn *string
	partition       *time.Time
	partitionPeriod Period
	fields          Fields
}

// Option sets an optional value of QueryBuilderArgs.
type Option func(*QueryBuilderArgs)

// WithLimit caps the number of returned rows. The value is not validated.
func WithLimit(limit int) Option {
	return func(a *QueryBuilderArgs) { a.limit = &limit }
}

// WithOptionalLimit is WithLimit for a value that may be absent. A nil limit
// leaves the args unchanged.
func WithOptionalLimit(limit *int) Option {
	return func(a *QueryBuilderArgs) {
		if limit != nil {
			WithLimit(*limit)(a)
		}
	}
}

// WithPartitionColumn sets the column filtered by the partition window.
func WithPartitionColumn(column string) Option {
	return func(a *QueryBuilderArgs) { a.partitionColumn = &column }
}

// WithOptionalPartitionColumn is WithPartitionColumn for a value that may be absent.
func WithOptionalPartitionColumn(column *string) Option {
	return func(a *QueryBuilderArgs) {
		if column != nil {
			WithPartitionColumn(*column)(a)
		}
	}
}

// WithPartition sets the start of the partition. Only its calendar date, in
// the location of partition, is used.
func WithPartition(partition time.Time) Option {
	return func(a *QueryBuilderArgs) { a.partition = &partition }
}

// WithOptionalPartition is WithPartition for a value that may be absent.
func WithOptionalPartition(partition *time.Time) Option {
	return func(a *QueryBuilderArgs) {
		if partition != nil {
			WithPartition(*partition)(a)
		}
	}
}

// WithPartitionPeriod sets the length of the partition window.
func WithPartitionPeriod(period Period) Option {
	return func(a *QueryBuilderArgs) { a.partitionPeriod = period }
}

// WithFields sets the field selection. The selection is copied.
func WithFields(fields Fields) Option {
	return func(a *QueryBuilderArgs) { a.fields = fields.clone() }
}

// NewQueryBuilderArgs validates tableName and returns args for it with a one
// day partition period and no field selection, then applies opts.
//
// tableName must follow [a-zA-Z_][a-zA-Z0-9_]*; otherwise an
// *ErrInvalidArgument is returned and no args are created.
func NewQueryBuilderArgs(tableName string, opts ...Option) (*QueryBuilderArgs, error) {
	if tableName == "" {
		return nil, NewErrInvalidArgument("table", "cannot be empty")
	}
	if !tableNameRe.MatchString(tableName) {
		return nil, NewErrInvalidArgument("table", "must follow [a-zA-Z_][a-zA-Z0-9_]*")
	}
	a := &QueryBuilderArgs{
		tableName:       tableName,
		partitionPeriod: DefaultPartitionPeriod,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// With returns a copy of a with opts applied. a itself is not modified.
func (a *QueryBuilderArgs) With(opts ...Option) *QueryBuilderArgs {
	c := &QueryBuilderArgs{
		tableName:       a.tableName,
		limit:           a.limit,
		partitionColumn: a.partitionColumn,
		partition:       a.partition,
		partitionPeriod: a.partitionPeriod,
		fields:          a.fields.clone(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TableName returns the validated table name.
func (a *QueryBuilderArgs) TableName() string { return a.tableName }

// Limit returns the row limit, if one is set.
func (a *QueryBuilderArgs) Limit() (int, bool) {
	if a.limit == nil {
		return 0, false
	}
	return *a.limit, true
}

// PartitionColumn returns the column filtered by the partition window, if set.
func (a *QueryBuilderArgs) PartitionColumn() (string, bool) {
	if a.partitionColumn == nil {
		return "", false
	}
	return *a.partitionColumn, true
}

// Partition returns the partition start instant, if set.
func (a *QueryBuilderArgs) Partition() (time.Time, bool) {
	if a.partition == nil {
		return time.Time{}, false
	}
	return *a.partition, true
}

// PartitionPeriod returns the length of the partition window.
func (a *QueryBuilderArgs) PartitionPeriod() Period { return a.partitionPeriod }

// Fields returns a copy of the field selection.
func (a *QueryBuilderArgs) Fields() Fields { return a.fields.clone() }

// BuildQueries returns the SELECT statements reading the described rows.
//
// A WHERE clause restricting the partition column to the half-open window
// [partition date, partition date + period) is added only when both the
// partition column and the partition are set.
func (a *QueryBuilderArgs) BuildQueries() []string {
	columns := "*"
	if len(a.fields) > 0 {
		columns = a.fields.SelectExpression()
	}

	stmt := selectFrom(a.tableName, columns)
	if where, ok := a.partitionFilter(); ok {
		stmt = stmt.Where(where)
	}
	if a.limit != nil {
		stmt = stmt.Limit(*a.limit)
	}
	return []string{stmt.mustWrite()}
}

func (a *QueryBuilderArgs) partitionFilter() (string, bool) {
	if a.partitionColumn == nil || a.partition == nil {
		return "", false
	}
	col := *a.partitionColumn
	lower := civil.DateOf(*a.partition)
	upper := a.partitionPeriod.AddTo(lower)
	return fmt.Sprintf("%s >= '%s' AND %s < '%s'", col, lower, col, upper), true
}

func (a *QueryBuilderArgs) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "QueryBuilderArgs{tableName=%s", a.tableName)
	if n, ok := a.Limit(); ok {
		fmt.Fprintf(&b, ", limit=%d", n)
	}
	if col, ok := a.PartitionColumn(); ok {
		fmt.Fprintf(&b, ", partitionColumn=%s", col)
	}
	if p, ok := a.Partition(); ok {
		fmt.Fprintf(&b, ", partition=%s", p.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, ", partitionPeriod=%s", a.partitionPeriod)
	if len(a.fields) > 0 {
		fmt.Fprintf(&b, ", fields=[%s]", strings.Join(a.fields.Names(), ","))
	}
	b.WriteString("}")
	return b.String()
}
