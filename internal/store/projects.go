package store

import (
	"context"
	"time"
)

const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
)

type Project struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Member struct {
	ProjectID   string
	UserID      string
	Role        string
	DisplayName string
	Email       string
}

func (s *Store) CreateProject(ctx context.Context, id, name, ownerID string) (Project, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO projects (id, name, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, owner_id, created_at, updated_at`,
		id, name, ownerID)

	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at, updated_at
		 FROM projects WHERE id = $1`, id)

	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProjectsForUser(ctx context.Context, userID string) ([]Project, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.id, p.name, p.owner_id, p.created_at, p.updated_at
		 FROM projects p
		 JOIN project_members m ON m.project_id = p.id
		 WHERE m.user_id = $1
		 ORDER BY p.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) RenameProject(ctx context.Context, id, name string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE projects SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	return err
}

func (s *Store) TouchProject(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE projects SET updated_at = now() WHERE id = $1`, id)
	return err
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (s *Store) AddProjectMember(ctx context.Context, projectID, userID, role string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (project_id, user_id) DO NOTHING`,
		projectID, userID, role)
	return err
}

func (s *Store) GetProjectMember(ctx context.Context, projectID, userID string) (Member, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT project_id, user_id, role FROM project_members
		 WHERE project_id = $1 AND user_id = $2`, projectID, userID)

	var m Member
	err := row.Scan(&m.ProjectID, &m.UserID, &m.Role)
	return m, err
}

func (s *Store) ListProjectMembers(ctx context.Context, projectID string) ([]Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT m.project_id, m.user_id, m.role, u.display_name, u.email
		 FROM project_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.project_id = $1
		 ORDER BY u.display_name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) RemoveProjectMember(ctx context.Context, projectID, userID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	return err
}
