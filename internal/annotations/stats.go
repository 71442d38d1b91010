package annotations

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath           string `json:"db_path"`
	DBSizeBytes      int64  `json:"db_size_bytes"`
	TotalVersions    int    `json:"total_versions"`
	ActiveVersions   int    `json:"active_versions"`
	AnnotatedPatches int    `json:"annotated_patches"`
	UrgentPatches    int    `json:"urgent_patches"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.GetContext(ctx, &st.TotalVersions, `SELECT COUNT(*) FROM annotations`); err != nil {
		return st, err
	}
	if err := s.db.GetContext(ctx, &st.ActiveVersions, `SELECT COUNT(*) FROM annotations WHERE deleted_at IS NULL`); err != nil {
		return st, err
	}
	if err := s.db.GetContext(ctx, &st.AnnotatedPatches,
		`SELECT COUNT(DISTINCT patch_id) FROM annotations WHERE deleted_at IS NULL`); err != nil {
		return st, err
	}

	latest, err := s.List(ctx, ListParams{UrgentOnly: true, Limit: 1 << 20})
	if err != nil {
		return st, err
	}
	st.UrgentPatches = len(latest)
	return st, nil
}
