package repositories

import (
	"context"
	"fmt"

	"gabinete-digital/models"
	"gabinete-digital/store"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.BoardPost) error
	GetAll(ctx context.Context) ([]models.BoardPost, error)
	GetByID(ctx context.Context, id string) (*models.BoardPost, error)
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	store store.Store
}

func NewPostRepository(s store.Store) PostRepository {
	return &postRepository{store: s}
}

func (r *postRepository) Create(ctx context.Context, post *models.BoardPost) error {
	return r.store.Append(ctx, store.TablePosts, store.Record{
		"id":         post.ID,
		"created_at": formatTime(post.CreatedAt),
		"author_id":  post.AuthorID,
		"author":     post.Author,
		"title":      post.Title,
		"body":       post.Body,
	})
}

// GetAll returns posts newest first.
func (r *postRepository) GetAll(ctx context.Context) ([]models.BoardPost, error) {
	rows, err := r.store.ReadAll(ctx, store.TablePosts)
	if err != nil {
		return nil, err
	}

	posts := make([]models.BoardPost, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		createdAt, err := parseTime(rows[i], "created_at")
		if err != nil {
			return nil, corruptRow(store.TablePosts, err)
		}
		posts = append(posts, models.BoardPost{
			ID:        rows[i]["id"],
			CreatedAt: createdAt,
			AuthorID:  rows[i]["author_id"],
			Author:    rows[i]["author"],
			Title:     rows[i]["title"],
			Body:      rows[i]["body"],
		})
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.BoardPost, error) {
	posts, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i], nil
		}
	}
	return nil, &models.ErrorNotFound{Message: fmt.Sprintf("post %s not found", id)}
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	rows, err := r.store.ReadAll(ctx, store.TablePosts)
	if err != nil {
		return err
	}

	kept := make([]store.Record, 0, len(rows))
	for _, row := range rows {
		if row["id"] != id {
			kept = append(kept, row)
		}
	}
	if len(kept) == len(rows) {
		return &models.ErrorNotFound{Message: fmt.Sprintf("post %s not found", id)}
	}
	return r.store.Overwrite(ctx, store.TablePosts, kept)
}
