package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gabinete-digital/models"
	"gabinete-digital/store"
)

const areaSeparator = ", "

type IdeaRepository interface {
	Create(ctx context.Context, idea *models.Idea) error
	GetAll(ctx context.Context) ([]models.Idea, error)
	Delete(ctx context.Context, id string) error
	// Columns returns the column set the ideas table was created with, or
	// nil before the first idea is stored.
	Columns(ctx context.Context) ([]string, error)
}

type ideaRepository struct {
	store store.Store
}

func NewIdeaRepository(s store.Store) IdeaRepository {
	return &ideaRepository{store: s}
}

func (r *ideaRepository) Create(ctx context.Context, idea *models.Idea) error {
	return r.store.Append(ctx, store.TableIdeas, encodeIdea(idea))
}

func (r *ideaRepository) GetAll(ctx context.Context) ([]models.Idea, error) {
	rows, err := r.store.ReadAll(ctx, store.TableIdeas)
	if err != nil {
		return nil, err
	}

	ideas := make([]models.Idea, 0, len(rows))
	for _, row := range rows {
		idea, err := decodeIdea(row)
		if err != nil {
			return nil, corruptRow(store.TableIdeas, err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, nil
}

func (r *ideaRepository) Columns(ctx context.Context) ([]string, error) {
	return r.store.Columns(ctx, store.TableIdeas)
}

// Delete rewrites the table without the given idea.
func (r *ideaRepository) Delete(ctx context.Context, id string) error {
	rows, err := r.store.ReadAll(ctx, store.TableIdeas)
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
		return &models.ErrorNotFound{Message: fmt.Sprintf("idea %s not found", id)}
	}
	return r.store.Overwrite(ctx, store.TableIdeas, kept)
}

func encodeIdea(idea *models.Idea) store.Record {
	return store.Record{
		"id":             idea.ID,
		"created_at":     formatTime(idea.CreatedAt),
		"name":           idea.Name,
		"age_range":      idea.AgeRange,
		"description":    idea.Description,
		"contribution":   idea.Contribution,
		"location":       idea.Location,
		"areas":          strings.Join(idea.Areas, areaSeparator),
		"council_member": idea.CouncilMember,
		"terms_accepted": strconv.FormatBool(idea.TermsAccepted),
	}
}

func decodeIdea(row store.Record) (models.Idea, error) {
	createdAt, err := parseTime(row, "created_at")
	if err != nil {
		return models.Idea{}, err
	}

	accepted := false
	if v := row["terms_accepted"]; v != "" {
		if accepted, err = strconv.ParseBool(v); err != nil {
			return models.Idea{}, fmt.Errorf("field terms_accepted: %w", err)
		}
	}

	areas := []string{}
	if v := row["areas"]; v != "" {
		areas = strings.Split(v, areaSeparator)
	}

	return models.Idea{
		ID:            row["id"],
		CreatedAt:     createdAt,
		Name:          row["name"],
		AgeRange:      row["age_range"],
		Description:   row["description"],
		Contribution:  row["contribution"],
		Location:      row["location"],
		Areas:         areas,
		CouncilMember: row["council_member"],
		TermsAccepted: accepted,
	}, nil
}
