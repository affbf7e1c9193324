package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gabinete-digital/metrics"
	"gabinete-digital/models"
	"gabinete-digital/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ideaExportColumns is the header used while the ideas table is still empty.
var ideaExportColumns = []string{
	"id", "created_at", "name", "age_range", "description", "contribution",
	"location", "areas", "council_member", "terms_accepted",
}

type IdeaService interface {
	Submit(ctx context.Context, req models.SubmitIdeaRequest) (*models.Idea, error)
	List(ctx context.Context, params models.IdeaListParams) ([]models.Idea, int, error)
	Delete(ctx context.Context, id string) error
	ExportCSV(ctx context.Context, w io.Writer) error
}

type ideaService struct {
	ideaRepo repositories.IdeaRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewIdeaService(ideaRepo repositories.IdeaRepository, m *metrics.Metrics, logger *zap.Logger) IdeaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ideaService{
		ideaRepo: ideaRepo,
		metrics:  m,
		logger:   logger.With(zap.String("component", "ideas")),
	}
}

func (s *ideaService) Submit(ctx context.Context, req models.SubmitIdeaRequest) (*models.Idea, error) {
	if err := validateIdea(req); err != nil {
		return nil, err
	}

	idea := &models.Idea{
		ID:            uuid.New().String(),
		CreatedAt:     time.Now(),
		Name:          strings.TrimSpace(req.Name),
		AgeRange:      req.AgeRange,
		Description:   req.Description,
		Contribution:  req.Contribution,
		Location:      req.Location,
		Areas:         req.Areas,
		CouncilMember: req.CouncilMember,
		TermsAccepted: req.TermsAccepted,
	}
	if idea.Areas == nil {
		idea.Areas = []string{}
	}

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		s.logger.Error("failed to store idea", zap.Error(err))
		return nil, err
	}
	s.metrics.IncIdeasSubmitted()

	s.logger.Info("idea submitted", zap.String("idea_id", idea.ID), zap.String("council_member", idea.CouncilMember))
	return idea, nil
}

func validateIdea(req models.SubmitIdeaRequest) error {
	if !req.TermsAccepted {
		return &models.ErrorValidation{Message: "the terms of use must be accepted"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return &models.ErrorValidation{Message: "description is required"}
	}
	if !models.IsCouncilMember(req.CouncilMember) {
		return &models.ErrorValidation{Message: fmt.Sprintf("unknown council member %q", req.CouncilMember)}
	}
	if req.AgeRange != "" && !models.IsAgeRange(req.AgeRange) {
		return &models.ErrorValidation{Message: fmt.Sprintf("unknown age range %q", req.AgeRange)}
	}
	for _, area := range req.Areas {
		if !models.IsIdeaArea(area) {
			return &models.ErrorValidation{Message: fmt.Sprintf("unknown area %q", area)}
		}
	}
	return nil
}

// List returns one page of ideas, newest first, and the total count.
func (s *ideaService) List(ctx context.Context, params models.IdeaListParams) ([]models.Idea, int, error) {
	params.Normalize()

	ideas, err := s.ideaRepo.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := len(ideas)
	newestFirst := make([]models.Idea, 0, total)
	for i := total - 1; i >= 0; i-- {
		newestFirst = append(newestFirst, ideas[i])
	}

	start := (params.Page - 1) * params.Limit
	if start >= total {
		return []models.Idea{}, total, nil
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return newestFirst[start:end], total, nil
}

func (s *ideaService) Delete(ctx context.Context, id string) error {
	if err := s.ideaRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("idea deleted", zap.String("idea_id", id))
	return nil
}

// ExportCSV writes every idea as CSV. The header follows the column set the
// ideas table was stored with.
func (s *ideaService) ExportCSV(ctx context.Context, w io.Writer) error {
	columns, err := s.ideaRepo.Columns(ctx)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		columns = ideaExportColumns
	}

	ideas, err := s.ideaRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, idea := range ideas {
		fields := exportFields(idea)
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = fields[column]
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportFields(idea models.Idea) map[string]string {
	return map[string]string{
		"id":             idea.ID,
		"created_at":     idea.CreatedAt.Format(time.RFC3339),
		"name":           idea.Name,
		"age_range":      idea.AgeRange,
		"description":    idea.Description,
		"contribution":   idea.Contribution,
		"location":       idea.Location,
		"areas":          strings.Join(idea.Areas, ", "),
		"council_member": idea.CouncilMember,
		"terms_accepted": strconv.FormatBool(idea.TermsAccepted),
	}
}
