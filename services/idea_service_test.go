package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"gabinete-digital/metrics"
	"gabinete-digital/models"
	"gabinete-digital/repositories"
	"gabinete-digital/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdeaService(t *testing.T) (IdeaService, store.Store, *metrics.Metrics) {
	t.Helper()
	fileStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return NewIdeaService(repositories.NewIdeaRepository(fileStore), m, nil), fileStore, m
}

func validIdea() models.SubmitIdeaRequest {
	return models.SubmitIdeaRequest{
		Name:          "Maria",
		AgeRange:      "31 to 45",
		Description:   "A bike lane on the main avenue",
		Contribution:  "I can help map the route",
		Location:      "Downtown",
		Areas:         []string{"Urban Mobility", "Traffic"},
		CouncilMember: "Marina Machado (PL)",
		TermsAccepted: true,
	}
}

func TestIdeaService_Submit(t *testing.T) {
	svc, _, m := newIdeaService(t)
	ctx := context.Background()

	idea, err := svc.Submit(ctx, validIdea())
	require.NoError(t, err)
	assert.NotEmpty(t, idea.ID)
	assert.False(t, idea.CreatedAt.IsZero())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IdeasSubmittedTotal))

	ideas, total, err := svc.List(ctx, models.IdeaListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, ideas, 1)
	assert.Equal(t, idea.ID, ideas[0].ID)
	assert.Equal(t, []string{"Urban Mobility", "Traffic"}, ideas[0].Areas)
}

func TestIdeaService_SubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.SubmitIdeaRequest)
	}{
		{"terms not accepted", func(r *models.SubmitIdeaRequest) { r.TermsAccepted = false }},
		{"no description", func(r *models.SubmitIdeaRequest) { r.Description = " " }},
		{"unknown council member", func(r *models.SubmitIdeaRequest) { r.CouncilMember = "Someone" }},
		{"unknown age range", func(r *models.SubmitIdeaRequest) { r.AgeRange = "Ancient" }},
		{"unknown area", func(r *models.SubmitIdeaRequest) { r.Areas = []string{"Space"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fileStore, _ := newIdeaService(t)
			req := validIdea()
			tt.modify(&req)

			_, err := svc.Submit(context.Background(), req)
			var validationErr *models.ErrorValidation
			assert.ErrorAs(t, err, &validationErr)

			rows, err := fileStore.ReadAll(context.Background(), store.TableIdeas)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestIdeaService_ListPages(t *testing.T) {
	svc, _, _ := newIdeaService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		req := validIdea()
		req.Name = string(rune('A' + i))
		_, err := svc.Submit(ctx, req)
		require.NoError(t, err)
	}

	page, total, err := svc.List(ctx, models.IdeaListParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "E", page[0].Name)

	page, _, err = svc.List(ctx, models.IdeaListParams{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "A", page[0].Name)

	page, _, err = svc.List(ctx, models.IdeaListParams{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestIdeaService_DeleteAndExport(t *testing.T) {
	svc, _, _ := newIdeaService(t)
	ctx := context.Background()

	kept, err := svc.Submit(ctx, validIdea())
	require.NoError(t, err)
	removed, err := svc.Submit(ctx, validIdea())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, removed.ID))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.ElementsMatch(t, ideaExportColumns, records[0])

	row := make(map[string]string)
	for i, column := range records[0] {
		row[column] = records[1][i]
	}
	assert.Equal(t, kept.ID, row["id"])
	assert.Equal(t, "Urban Mobility, Traffic", row["areas"])
	assert.Equal(t, "true", row["terms_accepted"])
}

func TestIdeaService_ExportHeaderFollowsStoredColumns(t *testing.T) {
	svc, s, _ := newIdeaService(t)
	ctx := context.Background()

	var empty bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &empty))
	records, err := csv.NewReader(&empty).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, ideaExportColumns, records[0])

	_, err = svc.Submit(ctx, validIdea())
	require.NoError(t, err)

	stored, err := s.Columns(ctx, store.TableIdeas)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))
	records, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, stored, records[0])
}
