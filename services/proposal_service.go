package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gabinete-digital/metrics"
	"gabinete-digital/models"
	"gabinete-digital/repositories"

	"github.com/bwmarrin/snowflake"
	"github.com/moby/locker"
	"go.uber.org/zap"
)

// DraftGenerator turns a request or an instruction into document text.
type DraftGenerator interface {
	GenerateDraft(ctx context.Context, author string, docType models.DocumentType, subject string) (string, error)
	ReviseDraft(ctx context.Context, priorText, instruction, author string, docType models.DocumentType) (string, error)
}

type ProposalService interface {
	StartProposal(ctx context.Context, author string, docType models.DocumentType, subject string) (*models.DraftSession, error)
	ReviseProposal(ctx context.Context, session models.DraftSession, instruction string) (*models.DraftSession, error)
	ListVersions(ctx context.Context, proposalID string) ([]models.ProposalDraftVersion, error)
	GetVersion(ctx context.Context, proposalID string, versionNumber int) (*models.ProposalDraftVersion, error)
	Restore(ctx context.Context, proposalID string, versionNumber int) (*models.DraftSession, error)
	ListProposals(ctx context.Context, author string) ([]models.ProposalSummary, error)
}

type proposalService struct {
	proposalRepo repositories.ProposalRepository
	generator    DraftGenerator
	ids          *snowflake.Node
	locks        *locker.Locker
	metrics      *metrics.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	generator DraftGenerator,
	ids *snowflake.Node,
	m *metrics.Metrics,
	logger *zap.Logger,
) ProposalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &proposalService{
		proposalRepo: proposalRepo,
		generator:    generator,
		ids:          ids,
		locks:        locker.New(),
		metrics:      m,
		logger:       logger.With(zap.String("component", "proposals")),
		now:          time.Now,
	}
}

// StartProposal generates the first draft and records it as version 1. A
// failed generation mints no id and writes nothing.
func (s *proposalService) StartProposal(ctx context.Context, author string, docType models.DocumentType, subject string) (*models.DraftSession, error) {
	if strings.TrimSpace(author) == "" {
		return nil, &models.ErrorValidation{Message: "author is required"}
	}
	if !models.IsDocumentType(docType) {
		return nil, &models.ErrorValidation{Message: fmt.Sprintf("unknown document type %q", docType)}
	}
	if strings.TrimSpace(subject) == "" {
		return nil, &models.ErrorValidation{Message: "subject is required"}
	}

	body, err := s.generator.GenerateDraft(ctx, author, docType, subject)
	if err != nil {
		s.logger.Warn("draft generation failed",
			zap.String("author", author),
			zap.String("document_type", string(docType)),
			zap.Error(err),
		)
		return nil, err
	}

	version := &models.ProposalDraftVersion{
		ProposalID:    s.ids.Generate().String(),
		VersionNumber: 1,
		Author:        author,
		DocumentType:  docType,
		SubjectText:   subject,
		CreatedAt:     s.now(),
		BodyText:      body,
	}
	if err := s.proposalRepo.CreateVersion(ctx, version); err != nil {
		s.logger.Error("failed to record first version", zap.Error(err))
		return nil, err
	}
	s.metrics.IncProposalVersions()

	s.logger.Info("proposal started",
		zap.String("proposal_id", version.ProposalID),
		zap.String("document_type", string(docType)),
	)
	return sessionFrom(version), nil
}

// ReviseProposal rewrites the session's text and records the result as the
// proposal's next version. The version number always comes from the store
// (latest+1), even when the session holds a restored older version; the
// session only decides which text is revised. Author, type and subject are
// taken from version 1.
func (s *proposalService) ReviseProposal(ctx context.Context, session models.DraftSession, instruction string) (*models.DraftSession, error) {
	if session.ProposalID == "" {
		return nil, &models.ErrorValidation{Message: "no proposal in progress"}
	}
	if strings.TrimSpace(instruction) == "" {
		return nil, &models.ErrorValidation{Message: "instruction is required"}
	}

	s.locks.Lock(session.ProposalID)
	defer s.locks.Unlock(session.ProposalID)

	versions, err := s.proposalRepo.GetVersions(ctx, session.ProposalID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, &models.ErrorNotFound{Message: fmt.Sprintf("proposal %s not found", session.ProposalID)}
	}

	latest := versions[0]
	first := versions[len(versions)-1]

	priorText, baseVersion := latest.BodyText, latest.VersionNumber
	if session.Body != "" {
		priorText, baseVersion = session.Body, session.Version
	}

	body, err := s.generator.ReviseDraft(ctx, priorText, instruction, first.Author, first.DocumentType)
	if err != nil {
		s.logger.Warn("draft revision failed",
			zap.String("proposal_id", session.ProposalID),
			zap.Error(err),
		)
		return nil, err
	}

	version := &models.ProposalDraftVersion{
		ProposalID:    session.ProposalID,
		VersionNumber: latest.VersionNumber + 1,
		Author:        first.Author,
		DocumentType:  first.DocumentType,
		SubjectText:   first.SubjectText,
		Instruction:   instruction,
		BaseVersion:   baseVersion,
		CreatedAt:     s.now(),
		BodyText:      body,
	}
	if err := s.proposalRepo.CreateVersion(ctx, version); err != nil {
		s.logger.Error("failed to record revision", zap.String("proposal_id", session.ProposalID), zap.Error(err))
		return nil, err
	}
	s.metrics.IncProposalVersions()

	return sessionFrom(version), nil
}

// ListVersions returns the proposal's history newest first; unknown ids
// give an empty list.
func (s *proposalService) ListVersions(ctx context.Context, proposalID string) ([]models.ProposalDraftVersion, error) {
	return s.proposalRepo.GetVersions(ctx, proposalID)
}

func (s *proposalService) GetVersion(ctx context.Context, proposalID string, versionNumber int) (*models.ProposalDraftVersion, error) {
	return s.proposalRepo.GetVersion(ctx, proposalID, versionNumber)
}

// Restore makes an older version the current draft without writing anything.
func (s *proposalService) Restore(ctx context.Context, proposalID string, versionNumber int) (*models.DraftSession, error) {
	version, err := s.proposalRepo.GetVersion(ctx, proposalID, versionNumber)
	if err != nil {
		return nil, err
	}
	return sessionFrom(version), nil
}

// ListProposals summarizes every proposal, most recently updated first. An
// empty author lists all of them.
func (s *proposalService) ListProposals(ctx context.Context, author string) ([]models.ProposalSummary, error) {
	all, err := s.proposalRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := map[string]*models.ProposalSummary{}
	order := []string{}
	for _, v := range all {
		summary, ok := byID[v.ProposalID]
		if !ok {
			summary = &models.ProposalSummary{ProposalID: v.ProposalID}
			byID[v.ProposalID] = summary
			order = append(order, v.ProposalID)
		}
		if v.VersionNumber == 1 {
			summary.Author = v.Author
			summary.DocumentType = v.DocumentType
			summary.SubjectText = v.SubjectText
			summary.StartedAt = v.CreatedAt
		}
		if v.VersionNumber > summary.LatestVersion {
			summary.LatestVersion = v.VersionNumber
			summary.UpdatedAt = v.CreatedAt
		}
	}

	summaries := []models.ProposalSummary{}
	for _, id := range order {
		if author != "" && byID[id].Author != author {
			continue
		}
		summaries = append(summaries, *byID[id])
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func sessionFrom(v *models.ProposalDraftVersion) *models.DraftSession {
	return &models.DraftSession{
		ProposalID:   v.ProposalID,
		Version:      v.VersionNumber,
		Body:         v.BodyText,
		Author:       v.Author,
		DocumentType: v.DocumentType,
		Subject:      v.SubjectText,
	}
}
