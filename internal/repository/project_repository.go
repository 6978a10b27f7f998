package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Project struct {
	ID          string
	Name        string
	Description *string
	Status      string
	Priority    string
	StartDate   *time.Time
	DueDate     *time.Time
	OwnerID     string
	ClientID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectMember struct {
	ID        string
	ProjectID string
	UserID    string
	JoinedAt  time.Time
	User      *User
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindAll(ctx context.Context) ([]*Project, error)
	FindOverdue(ctx context.Context) ([]*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, member *ProjectMember) error
	FindMembers(ctx context.Context, projectID string) ([]*ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, userID string) error
	DeleteMembersByProject(ctx context.Context, projectID string) error
}

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgProjectRepository{pool: pool}
}

const projectColumns = `id, name, description, status, priority, start_date, due_date, owner_id, client_id, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	project := &Project{}
	err := row.Scan(
		&project.ID, &project.Name, &project.Description, &project.Status,
		&project.Priority, &project.StartDate, &project.DueDate, &project.OwnerID,
		&project.ClientID, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (name, description, status, priority, start_date, due_date, owner_id, client_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		project.Name, project.Description, project.Status, project.Priority,
		project.StartDate, project.DueDate, project.OwnerID, project.ClientID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *pgProjectRepository) FindAll(ctx context.Context) ([]*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY updated_at DESC`
	return r.queryProjects(ctx, query)
}

// FindOverdue returns unfinished projects past their due date.
func (r *pgProjectRepository) FindOverdue(ctx context.Context) ([]*Project, error) {
	query := `SELECT ` + projectColumns + `
		FROM projects
		WHERE due_date IS NOT NULL AND due_date < NOW()
		  AND status NOT IN ('completed', 'cancelled')
		ORDER BY due_date`
	return r.queryProjects(ctx, query)
}

func (r *pgProjectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]*Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(
			&project.ID, &project.Name, &project.Description, &project.Status,
			&project.Priority, &project.StartDate, &project.DueDate, &project.OwnerID,
			&project.ClientID, &project.CreatedAt, &project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, status = $4, priority = $5,
		    start_date = $6, due_date = $7, client_id = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		project.ID, project.Name, project.Description, project.Status,
		project.Priority, project.StartDate, project.DueDate, project.ClientID,
	).Scan(&project.UpdatedAt)
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (r *pgProjectRepository) AddMember(ctx context.Context, member *ProjectMember) error {
	query := `
		INSERT INTO project_members (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING
		RETURNING id, joined_at
	`
	err := r.pool.QueryRow(ctx, query, member.ProjectID, member.UserID).
		Scan(&member.ID, &member.JoinedAt)
	if err == pgx.ErrNoRows {
		// Already a member; not an error.
		return nil
	}
	return err
}

func (r *pgProjectRepository) FindMembers(ctx context.Context, projectID string) ([]*ProjectMember, error) {
	query := `
		SELECT pm.id, pm.project_id, pm.user_id, pm.joined_at,
		       u.id, u.email, u.username, u.first_name, u.last_name, u.role
		FROM project_members pm
		JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = $1
		ORDER BY pm.joined_at
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*ProjectMember
	for rows.Next() {
		member := &ProjectMember{User: &User{}}
		if err := rows.Scan(
			&member.ID, &member.ProjectID, &member.UserID, &member.JoinedAt,
			&member.User.ID, &member.User.Email, &member.User.Username,
			&member.User.FirstName, &member.User.LastName, &member.User.Role,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *pgProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	return err
}

func (r *pgProjectRepository) DeleteMembersByProject(ctx context.Context, projectID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, projectID)
	return err
}
