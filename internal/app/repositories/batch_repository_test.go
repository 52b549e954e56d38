package repositories

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQuerier captures the statements issued through it and returns
// empty result sets.
type recordingQuerier struct {
	queries []string
	args    [][]any
}

func (q *recordingQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, sql)
	q.args = append(q.args, args)
	return pgconn.CommandTag{}, nil
}

func (q *recordingQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.queries = append(q.queries, sql)
	q.args = append(q.args, args)
	return emptyRows{}, nil
}

func (q *recordingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	q.args = append(q.args, args)
	return emptyRows{}
}

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(dest ...any) error                       { return pgx.ErrNoRows }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

// Sibling reads run through the caller's Querier so a transaction sees
// its own writes. A nil pool would panic if the repository fell back to it.
func TestGetSiblingsReadsThroughGivenQuerier(t *testing.T) {
	repo := NewBatchRepository(nil)
	q := &recordingQuerier{}

	batches, err := repo.GetSiblings(context.Background(), q, 10, "2023-2027")

	require.NoError(t, err)
	assert.Empty(t, batches)
	require.Len(t, q.queries, 1)
	assert.Contains(t, q.queries[0], "b.department_id = $1 AND b.name = $2")
	assert.Equal(t, []any{int64(10), "2023-2027"}, q.args[0])
}
