package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Comment is a threaded note on a project or a client. Replies nest one level:
// a comment with a parent cannot itself be a parent.
type Comment struct {
	ID              string
	EntityID        string
	AuthorID        string
	ParentCommentID *string
	CommentType     string
	Content         string
	CreatedAt       time.Time
	Author          *User
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, id string) (*Comment, error)
	FindByEntity(ctx context.Context, entityID string) ([]*Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByEntity(ctx context.Context, entityID string) error
}

// pgCommentRepository serves both project and client comments; the table name
// and entity column are fixed at construction.
type pgCommentRepository struct {
	pool         *pgxpool.Pool
	table        string
	entityColumn string
}

func NewProjectCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &pgCommentRepository{pool: pool, table: "project_comments", entityColumn: "project_id"}
}

func NewClientCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &pgCommentRepository{pool: pool, table: "client_comments", entityColumn: "client_id"}
}

func (r *pgCommentRepository) Create(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO ` + r.table + ` (` + r.entityColumn + `, author_id, parent_comment_id, comment_type, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		comment.EntityID, comment.AuthorID, comment.ParentCommentID,
		comment.CommentType, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *pgCommentRepository) FindByID(ctx context.Context, id string) (*Comment, error) {
	query := `
		SELECT id, ` + r.entityColumn + `, author_id, parent_comment_id, comment_type, content, created_at
		FROM ` + r.table + ` WHERE id = $1
	`
	comment := &Comment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID, &comment.EntityID, &comment.AuthorID, &comment.ParentCommentID,
		&comment.CommentType, &comment.Content, &comment.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *pgCommentRepository) FindByEntity(ctx context.Context, entityID string) ([]*Comment, error) {
	query := `
		SELECT c.id, c.` + r.entityColumn + `, c.author_id, c.parent_comment_id,
		       c.comment_type, c.content, c.created_at,
		       u.id, u.email, u.username, u.first_name, u.last_name, u.role
		FROM ` + r.table + ` c
		JOIN users u ON u.id = c.author_id
		WHERE c.` + r.entityColumn + ` = $1
		ORDER BY c.created_at
	`
	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		comment := &Comment{Author: &User{}}
		if err := rows.Scan(
			&comment.ID, &comment.EntityID, &comment.AuthorID, &comment.ParentCommentID,
			&comment.CommentType, &comment.Content, &comment.CreatedAt,
			&comment.Author.ID, &comment.Author.Email, &comment.Author.Username,
			&comment.Author.FirstName, &comment.Author.LastName, &comment.Author.Role,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func (r *pgCommentRepository) Delete(ctx context.Context, id string) error {
	// Replies go with their parent.
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM `+r.table+` WHERE parent_comment_id = $1`, id); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	return err
}

func (r *pgCommentRepository) DeleteByEntity(ctx context.Context, entityID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM `+r.table+` WHERE `+r.entityColumn+` = $1`, entityID)
	return err
}
