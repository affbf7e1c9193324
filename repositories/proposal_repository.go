package repositories

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"gabinete-digital/models"
	"gabinete-digital/store"
)

type ProposalRepository interface {
	CreateVersion(ctx context.Context, version *models.ProposalDraftVersion) error
	GetVersions(ctx context.Context, proposalID string) ([]models.ProposalDraftVersion, error)
	GetVersion(ctx context.Context, proposalID string, versionNumber int) (*models.ProposalDraftVersion, error)
	GetAll(ctx context.Context) ([]models.ProposalDraftVersion, error)
}

type proposalRepository struct {
	store store.Store
}

func NewProposalRepository(s store.Store) ProposalRepository {
	return &proposalRepository{store: s}
}

func (r *proposalRepository) CreateVersion(ctx context.Context, version *models.ProposalDraftVersion) error {
	return r.store.Append(ctx, store.TableDrafts, store.Record{
		"proposal_id":    version.ProposalID,
		"version_number": strconv.Itoa(version.VersionNumber),
		"author":         version.Author,
		"document_type":  string(version.DocumentType),
		"subject_text":   version.SubjectText,
		"instruction":    version.Instruction,
		"base_version":   strconv.Itoa(version.BaseVersion),
		"created_at":     formatTime(version.CreatedAt),
		"body_text":      version.BodyText,
	})
}

// GetVersions returns the versions of one proposal, newest first.
func (r *proposalRepository) GetVersions(ctx context.Context, proposalID string) ([]models.ProposalDraftVersion, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	versions := []models.ProposalDraftVersion{}
	for _, v := range all {
		if v.ProposalID == proposalID {
			versions = append(versions, v)
		}
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].VersionNumber > versions[j].VersionNumber
	})
	return versions, nil
}

func (r *proposalRepository) GetVersion(ctx context.Context, proposalID string, versionNumber int) (*models.ProposalDraftVersion, error) {
	versions, err := r.GetVersions(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	for i := range versions {
		if versions[i].VersionNumber == versionNumber {
			return &versions[i], nil
		}
	}
	return nil, &models.ErrorNotFound{
		Message: fmt.Sprintf("version %d of proposal %s not found", versionNumber, proposalID),
	}
}

// GetAll returns every stored version in insertion order.
func (r *proposalRepository) GetAll(ctx context.Context) ([]models.ProposalDraftVersion, error) {
	rows, err := r.store.ReadAll(ctx, store.TableDrafts)
	if err != nil {
		return nil, err
	}

	versions := make([]models.ProposalDraftVersion, 0, len(rows))
	for _, row := range rows {
		v, err := decodeVersion(row)
		if err != nil {
			return nil, corruptRow(store.TableDrafts, err)
		}
		versions = append(versions, v)
	}
	return versions, nil
}

func decodeVersion(row store.Record) (models.ProposalDraftVersion, error) {
	number, err := parseInt(row, "version_number")
	if err != nil {
		return models.ProposalDraftVersion{}, err
	}
	base, err := parseInt(row, "base_version")
	if err != nil {
		return models.ProposalDraftVersion{}, err
	}
	createdAt, err := parseTime(row, "created_at")
	if err != nil {
		return models.ProposalDraftVersion{}, err
	}

	return models.ProposalDraftVersion{
		ProposalID:    row["proposal_id"],
		VersionNumber: number,
		Author:        row["author"],
		DocumentType:  models.DocumentType(row["document_type"]),
		SubjectText:   row["subject_text"],
		Instruction:   row["instruction"],
		BaseVersion:   base,
		CreatedAt:     createdAt,
		BodyText:      row["body_text"],
	}, nil
}
