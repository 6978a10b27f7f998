package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
)

func TestAddCommentDefaultsType(t *testing.T) {
	project := &repository.Project{ID: "project-1", Name: "Series B", OwnerID: "user-1"}
	projects := &fakeProjectRepo{
		findByIDFn: func(context.Context, string) (*repository.Project, error) { return project, nil },
	}
	svc := NewProjectService(projects, &fakeCommentRepo{}, nil, nil)

	comment, err := svc.AddComment(context.Background(), &repository.Comment{
		EntityID: "project-1",
		AuthorID: "user-1",
		Content:  "Kickoff done",
	})
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if comment.CommentType != types.CommentUpdate {
		t.Fatalf("expected default comment type %q, got %q", types.CommentUpdate, comment.CommentType)
	}
}

func TestAddCommentAllowsOneReplyLevel(t *testing.T) {
	project := &repository.Project{ID: "project-1", Name: "Series B", OwnerID: "user-1"}
	parentID := "comment-1"
	parent := &repository.Comment{ID: parentID, EntityID: "project-1", CommentType: types.CommentUpdate}

	projects := &fakeProjectRepo{
		findByIDFn: func(context.Context, string) (*repository.Project, error) { return project, nil },
	}
	comments := &fakeCommentRepo{
		findByIDFn: func(_ context.Context, id string) (*repository.Comment, error) {
			if id == parentID {
				return parent, nil
			}
			return nil, nil
		},
	}
	svc := NewProjectService(projects, comments, nil, nil)

	reply, err := svc.AddComment(context.Background(), &repository.Comment{
		EntityID:        "project-1",
		AuthorID:        "user-2",
		Content:         "Agreed",
		ParentCommentID: &parentID,
	})
	if err != nil {
		t.Fatalf("AddComment() reply error = %v", err)
	}

	// A reply to the reply must be rejected.
	reply.ID = "comment-2"
	parent.ParentCommentID = nil
	comments.findByIDFn = func(_ context.Context, id string) (*repository.Comment, error) {
		if id == reply.ID {
			return reply, nil
		}
		return nil, nil
	}
	_, err = svc.AddComment(context.Background(), &repository.Comment{
		EntityID:        "project-1",
		AuthorID:        "user-3",
		Content:         "Me too",
		ParentCommentID: &reply.ID,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a nested reply, got %v", err)
	}
}

func TestAddCommentRejectsCrossProjectParent(t *testing.T) {
	project := &repository.Project{ID: "project-1", Name: "Series B", OwnerID: "user-1"}
	parentID := "comment-9"
	projects := &fakeProjectRepo{
		findByIDFn: func(context.Context, string) (*repository.Project, error) { return project, nil },
	}
	comments := &fakeCommentRepo{
		findByIDFn: func(context.Context, string) (*repository.Comment, error) {
			return &repository.Comment{ID: parentID, EntityID: "project-other"}, nil
		},
	}
	svc := NewProjectService(projects, comments, nil, nil)

	_, err := svc.AddComment(context.Background(), &repository.Comment{
		EntityID:        "project-1",
		AuthorID:        "user-2",
		Content:         "Hello",
		ParentCommentID: &parentID,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a parent on another project, got %v", err)
	}
}

func TestProjectDeleteCascadesCommentsAndMembers(t *testing.T) {
	project := &repository.Project{ID: "project-1", Name: "Series B", OwnerID: "user-1"}

	var order []string
	deleted := false
	projects := &fakeProjectRepo{
		findByIDFn: func(context.Context, string) (*repository.Project, error) {
			if deleted {
				return nil, nil
			}
			return project, nil
		},
		deleteMembersByProjectFn: func(_ context.Context, id string) error {
			order = append(order, "members:"+id)
			return nil
		},
		deleteFn: func(_ context.Context, id string) error {
			order = append(order, "project:"+id)
			deleted = true
			return nil
		},
	}
	comments := &fakeCommentRepo{
		deleteByEntityFn: func(_ context.Context, entityID string) error {
			order = append(order, "comments:"+entityID)
			return nil
		},
	}
	svc := NewProjectService(projects, comments, nil, nil)

	if err := svc.Delete(context.Background(), "project-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	want := []string{"comments:project-1", "members:project-1", "project:project-1"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("expected cascade order %v, got %v", want, order)
		}
	}
}

func TestProjectDeleteFailsWhenRowSurvives(t *testing.T) {
	project := &repository.Project{ID: "project-1", Name: "Series B"}
	projects := &fakeProjectRepo{
		findByIDFn: func(context.Context, string) (*repository.Project, error) { return project, nil },
	}
	svc := NewProjectService(projects, &fakeCommentRepo{}, nil, nil)

	err := svc.Delete(context.Background(), "project-1")
	if !errors.Is(err, ErrDeleteUnverified) {
		t.Fatalf("expected ErrDeleteUnverified, got %v", err)
	}
}

func TestProjectCreateValidatesStatus(t *testing.T) {
	svc := NewProjectService(&fakeProjectRepo{}, &fakeCommentRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), &repository.Project{
		Name:    "Series B",
		OwnerID: "user-1",
		Status:  "archived",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestProjectCommentBroadcastsAddition(t *testing.T) {
	project := &repository.Project{ID: "project-1", Name: "Series B", OwnerID: "user-1"}
	projects := &fakeProjectRepo{
		findByIDFn: func(context.Context, string) (*repository.Project, error) { return project, nil },
	}
	events := &fakeBroadcaster{}
	svc := NewProjectService(projects, &fakeCommentRepo{}, nil, events)

	if _, err := svc.AddComment(context.Background(), &repository.Comment{
		EntityID: "project-1",
		AuthorID: "user-1",
		Content:  "Kickoff done",
	}); err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if len(events.events) != 1 || events.events[0] != "comment:added:project:project-1" {
		t.Fatalf("unexpected events: %v", events.events)
	}
}
