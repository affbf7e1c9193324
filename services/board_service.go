package services

import (
	"context"
	"time"

	"gabinete-digital/metrics"
	"gabinete-digital/models"
	"gabinete-digital/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxPostListLimit = 100

type BoardService interface {
	Publish(ctx context.Context, identity models.Identity, req models.PublishPostRequest) (*models.BoardPost, error)
	List(ctx context.Context, limit int) ([]models.BoardPost, error)
	Delete(ctx context.Context, identity models.Identity, id string) error
}

type boardService struct {
	postRepo repositories.PostRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewBoardService(postRepo repositories.PostRepository, m *metrics.Metrics, logger *zap.Logger) BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &boardService{
		postRepo: postRepo,
		metrics:  m,
		logger:   logger.With(zap.String("component", "board")),
	}
}

func (s *boardService) Publish(ctx context.Context, identity models.Identity, req models.PublishPostRequest) (*models.BoardPost, error) {
	if !identity.IsStaff() {
		return nil, &models.ErrorForbidden{Message: "only council staff can publish"}
	}

	post := &models.BoardPost{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		AuthorID:  identity.UserID,
		Author:    identity.Name,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error("failed to store post", zap.Error(err))
		return nil, err
	}
	s.metrics.IncPostsPublished()

	return post, nil
}

// List returns the newest posts first, at most limit of them.
func (s *boardService) List(ctx context.Context, limit int) ([]models.BoardPost, error) {
	if limit <= 0 || limit > maxPostListLimit {
		limit = maxPostListLimit
	}

	posts, err := s.postRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *boardService) Delete(ctx context.Context, identity models.Identity, id string) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != identity.UserID && !identity.IsAdmin() {
		return &models.ErrorForbidden{Message: "only the author or an admin can delete this post"}
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("post deleted", zap.String("post_id", id), zap.String("by", identity.UserID))
	return nil
}
