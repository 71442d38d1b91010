package annotations

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// SearchParams holds parameters for searching annotations.
type SearchParams struct {
	Query string
	Limit int
}

// Search finds the latest annotations whose notes or patch name contain the query.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]Annotation, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + p.Query + "%"
	q := latestOnly(sq.Select(columns...).From("annotations").Where(sq.Eq{"deleted_at": nil})).
		Where(sq.Or{sq.Like{"notes": pattern}, sq.Like{"patch_name": pattern}}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	return s.selectRows(ctx, q)
}
