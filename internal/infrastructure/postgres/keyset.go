package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// sortColumn resolves an API sort field name against a repository's
// whitelist. Listing queries interpolate the resolved column name, so the
// whitelist is also the injection guard.
func sortColumn(allowed map[string]string, sortBy string) (string, error) {
	column, ok := allowed[sortBy]
	if !ok {
		return "", fmt.Errorf("%w: %q", repository.ErrInvalidSortField, sortBy)
	}
	return column, nil
}

// orderClause builds the ORDER BY for a keyset listing. The id column is
// always the tie breaker so the ordering is total and the cursor position
// unambiguous.
func orderClause(column string, order pagination.Order) string {
	dir := "DESC"
	if order == pagination.OrderAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", column, dir, dir)
}

// cursorAnchor resolves the cursor row's sort value before the listing query
// runs. Comparing against an inline subquery instead would turn into a NULL
// comparison when the cursor row has been deleted mid-walk (likes toggled
// off, comments removed) and silently end the listing; resolving first lets
// the deletion surface as ErrInvalidCursor.
func cursorAnchor(ctx context.Context, db DBTX, table, column string, cursor uuid.UUID) (any, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", column, table)

	var value any
	if err := db.QueryRow(ctx, query, cursor).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cursor row %s is gone", repository.ErrInvalidCursor, cursor)
		}
		return nil, fmt.Errorf("failed to resolve cursor: %w", err)
	}
	return value, nil
}

// cursorPredicate builds the exclusive start-after filter: rows strictly
// beyond the cursor row in the requested ordering, compared against the
// resolved anchor. valueArg and idArg are the placeholder indexes carrying
// the anchor's sort value and the cursor id.
func cursorPredicate(column string, order pagination.Order, valueArg, idArg int) string {
	op := "<"
	if order == pagination.OrderAsc {
		op = ">"
	}
	return fmt.Sprintf("(%s, id) %s ($%d, $%d)", column, op, valueArg, idArg)
}
