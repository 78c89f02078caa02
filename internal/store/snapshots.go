package store

import (
	"context"
	"time"
)

type Snapshot struct {
	ID        string
	ProjectID string
	Version   int32
	Document  []byte
	CreatedAt time.Time
}

type CreateSnapshotParams struct {
	ID        string
	ProjectID string
	Version   int32
	Document  []byte
}

func (s *Store) CreateSnapshot(ctx context.Context, p CreateSnapshotParams) (Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO snapshots (id, project_id, version, document)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, project_id, version, document, created_at`,
		p.ID, p.ProjectID, p.Version, p.Document)

	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.ProjectID, &snap.Version, &snap.Document, &snap.CreatedAt)
	return snap, err
}

func (s *Store) GetLatestSnapshot(ctx context.Context, projectID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project_id, version, document, created_at
		 FROM snapshots
		 WHERE project_id = $1
		 ORDER BY version DESC
		 LIMIT 1`, projectID)

	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.ProjectID, &snap.Version, &snap.Document, &snap.CreatedAt)
	return snap, err
}
