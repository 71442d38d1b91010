package annotations

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// ExportAll returns every live annotation version, ordered by patch and version.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]Annotation, error) {
	return s.selectRows(ctx, sq.Select(columns...).From("annotations").
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy("patch_id", "version"))
}

// Import replays annotations from an export in order. Each becomes a new version,
// so history order is preserved but ids and versions are reassigned.
func (s *SQLiteStore) Import(ctx context.Context, annotations []Annotation) (int, error) {
	imported := 0
	for _, a := range annotations {
		_, err := s.Put(ctx, PutParams{
			PatchID:   a.PatchID,
			PatchName: a.PatchName,
			Notes:     a.Notes,
			Urgent:    a.Urgent,
			Author:    a.Author,
		})
		if err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
