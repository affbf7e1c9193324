package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gabinete-digital/models"
	"gabinete-digital/repositories"
	"gabinete-digital/store"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateDraft(ctx context.Context, author string, docType models.DocumentType, subject string) (string, error) {
	args := m.Called(ctx, author, docType, subject)
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) ReviseDraft(ctx context.Context, priorText, instruction, author string, docType models.DocumentType) (string, error) {
	args := m.Called(ctx, priorText, instruction, author, docType)
	return args.String(0), args.Error(1)
}

type ProposalServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     store.Store
	generator *mockGenerator
	service   ProposalService
}

func (s *ProposalServiceTestSuite) SetupTest() {
	fileStore, err := store.NewFileStore(s.T().TempDir())
	s.Require().NoError(err)

	node, err := snowflake.NewNode(1)
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.store = fileStore
	s.generator = &mockGenerator{}
	s.service = NewProposalService(repositories.NewProposalRepository(fileStore), s.generator, node, nil, nil)
}

func (s *ProposalServiceTestSuite) draftRows() int {
	rows, err := s.store.ReadAll(s.ctx, store.TableDrafts)
	s.Require().NoError(err)
	return len(rows)
}

func (s *ProposalServiceTestSuite) TestStreetLightingScenario() {
	s.generator.On("GenerateDraft", mock.Anything, "A. Silva", models.DocMotion, "street lighting").
		Return("body1", nil).Once()
	s.generator.On("ReviseDraft", mock.Anything, "body1", "shorten justification", "A. Silva", models.DocMotion).
		Return("body2", nil).Once()

	session, err := s.service.StartProposal(s.ctx, "A. Silva", models.DocMotion, "street lighting")
	s.Require().NoError(err)
	s.NotEmpty(session.ProposalID)
	s.Equal(1, session.Version)
	s.Equal("body1", session.Body)
	pid := session.ProposalID

	revised, err := s.service.ReviseProposal(s.ctx, *session, "shorten justification")
	s.Require().NoError(err)
	s.Equal(pid, revised.ProposalID)
	s.Equal(2, revised.Version)
	s.Equal("body2", revised.Body)

	versions, err := s.service.ListVersions(s.ctx, pid)
	s.Require().NoError(err)
	s.Require().Len(versions, 2)
	s.Equal(2, versions[0].VersionNumber)
	s.Equal(1, versions[1].VersionNumber)
	s.Equal("shorten justification", versions[0].Instruction)
	s.Equal(1, versions[0].BaseVersion)

	restored, err := s.service.Restore(s.ctx, pid, 1)
	s.Require().NoError(err)
	s.Equal("body1", restored.Body)
	s.Equal(1, restored.Version)
	s.Equal(2, s.draftRows())

	s.generator.AssertExpectations(s.T())
}

func (s *ProposalServiceTestSuite) TestVersionsAreContiguousAndInvariant() {
	const revisions = 5
	s.generator.On("GenerateDraft", mock.Anything, "Ana", models.DocBill, "Municipal archive").Return("v1", nil).Once()
	for i := 1; i <= revisions; i++ {
		s.generator.On("ReviseDraft", mock.Anything, fmt.Sprintf("v%d", i), mock.Anything, "Ana", models.DocBill).
			Return(fmt.Sprintf("v%d", i+1), nil).Once()
	}

	session, err := s.service.StartProposal(s.ctx, "Ana", models.DocBill, "Municipal archive")
	s.Require().NoError(err)

	numbers := []int{session.Version}
	for i := 0; i < revisions; i++ {
		session, err = s.service.ReviseProposal(s.ctx, *session, fmt.Sprintf("change %d", i))
		s.Require().NoError(err)
		numbers = append(numbers, session.Version)
	}
	s.Equal([]int{1, 2, 3, 4, 5, 6}, numbers)

	versions, err := s.service.ListVersions(s.ctx, session.ProposalID)
	s.Require().NoError(err)
	s.Len(versions, revisions+1)
	for i, v := range versions {
		s.Equal(revisions+1-i, v.VersionNumber)
		s.Equal(models.DocBill, v.DocumentType)
		s.Equal("Municipal archive", v.SubjectText)
		s.Equal("Ana", v.Author)
	}
}

func (s *ProposalServiceTestSuite) TestReviseRestoredVersionAppendsAfterLatest() {
	s.generator.On("GenerateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("first", nil).Once()
	s.generator.On("ReviseDraft", mock.Anything, "first", "second", mock.Anything, mock.Anything).Return("second", nil).Once()
	s.generator.On("ReviseDraft", mock.Anything, "first", "branch", mock.Anything, mock.Anything).Return("branched", nil).Once()

	session, err := s.service.StartProposal(s.ctx, "Ana", models.DocRecommendation, "Bus stops")
	s.Require().NoError(err)
	_, err = s.service.ReviseProposal(s.ctx, *session, "second")
	s.Require().NoError(err)

	restored, err := s.service.Restore(s.ctx, session.ProposalID, 1)
	s.Require().NoError(err)

	branched, err := s.service.ReviseProposal(s.ctx, *restored, "branch")
	s.Require().NoError(err)
	s.Equal(3, branched.Version)
	s.Equal("branched", branched.Body)

	v3, err := s.service.GetVersion(s.ctx, session.ProposalID, 3)
	s.Require().NoError(err)
	s.Equal(1, v3.BaseVersion)
}

func (s *ProposalServiceTestSuite) TestReviseWithoutBodyUsesLatest() {
	s.generator.On("GenerateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("latest text", nil).Once()
	s.generator.On("ReviseDraft", mock.Anything, "latest text", "tone down", "Ana", models.DocMotionOfApplause).Return("calmer", nil).Once()

	session, err := s.service.StartProposal(s.ctx, "Ana", models.DocMotionOfApplause, "Volunteer firefighters")
	s.Require().NoError(err)

	revised, err := s.service.ReviseProposal(s.ctx, models.DraftSession{ProposalID: session.ProposalID}, "tone down")
	s.Require().NoError(err)
	s.Equal(2, revised.Version)
	s.generator.AssertExpectations(s.T())
}

func (s *ProposalServiceTestSuite) TestGenerationFailureAppendsNothing() {
	s.generator.On("GenerateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", &models.ErrorService{Op: "draft", Err: errors.New("status 503")}).Once()

	session, err := s.service.StartProposal(s.ctx, "Ana", models.DocMotion, "Potholes")
	s.Nil(session)
	var serviceErr *models.ErrorService
	s.ErrorAs(err, &serviceErr)
	s.Equal(0, s.draftRows())
}

func (s *ProposalServiceTestSuite) TestRevisionFailureAppendsNothing() {
	s.generator.On("GenerateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("text", nil).Once()
	s.generator.On("ReviseDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", &models.ErrorConfiguration{Setting: "GROQ_API_KEY"}).Once()

	session, err := s.service.StartProposal(s.ctx, "Ana", models.DocMotion, "Potholes")
	s.Require().NoError(err)

	revised, err := s.service.ReviseProposal(s.ctx, *session, "longer")
	s.Nil(revised)
	var configErr *models.ErrorConfiguration
	s.ErrorAs(err, &configErr)
	s.Equal(1, s.draftRows())
}

func (s *ProposalServiceTestSuite) TestValidation() {
	tests := []struct {
		name    string
		author  string
		docType models.DocumentType
		subject string
	}{
		{"empty author", "", models.DocMotion, "x"},
		{"unknown type", "Ana", models.DocumentType("Decree"), "x"},
		{"blank subject", "Ana", models.DocMotion, "   "},
	}
	for _, tt := range tests {
		_, err := s.service.StartProposal(s.ctx, tt.author, tt.docType, tt.subject)
		var validationErr *models.ErrorValidation
		s.ErrorAs(err, &validationErr, tt.name)
	}

	_, err := s.service.ReviseProposal(s.ctx, models.DraftSession{}, "x")
	var validationErr *models.ErrorValidation
	s.ErrorAs(err, &validationErr)

	_, err = s.service.ReviseProposal(s.ctx, models.DraftSession{ProposalID: "missing"}, "x")
	var notFound *models.ErrorNotFound
	s.ErrorAs(err, &notFound)

	s.generator.AssertNotCalled(s.T(), "GenerateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ProposalServiceTestSuite) TestRestoreMissingVersion() {
	_, err := s.service.Restore(s.ctx, "nope", 1)
	var notFound *models.ErrorNotFound
	s.ErrorAs(err, &notFound)
}

func (s *ProposalServiceTestSuite) TestListVersionsIsIdempotent() {
	s.generator.On("GenerateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("text", nil).Once()
	s.generator.On("ReviseDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("more", nil).Once()

	session, err := s.service.StartProposal(s.ctx, "Ana", models.DocMotion, "Parks")
	s.Require().NoError(err)
	_, err = s.service.ReviseProposal(s.ctx, *session, "more")
	s.Require().NoError(err)

	first, err := s.service.ListVersions(s.ctx, session.ProposalID)
	s.Require().NoError(err)
	second, err := s.service.ListVersions(s.ctx, session.ProposalID)
	s.Require().NoError(err)
	s.Equal(first, second)

	unknown, err := s.service.ListVersions(s.ctx, "unknown")
	s.Require().NoError(err)
	s.Empty(unknown)
}

func (s *ProposalServiceTestSuite) TestListProposals() {
	s.generator.On("GenerateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("text", nil)
	s.generator.On("ReviseDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("more", nil)

	ana, err := s.service.StartProposal(s.ctx, "Ana", models.DocMotion, "Parks")
	s.Require().NoError(err)
	_, err = s.service.StartProposal(s.ctx, "Bia", models.DocBill, "Schools")
	s.Require().NoError(err)
	_, err = s.service.ReviseProposal(s.ctx, *ana, "more")
	s.Require().NoError(err)

	all, err := s.service.ListProposals(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 2)

	mine, err := s.service.ListProposals(s.ctx, "Ana")
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(ana.ProposalID, mine[0].ProposalID)
	s.Equal(2, mine[0].LatestVersion)
	s.Equal("Parks", mine[0].SubjectText)
}

func (s *ProposalServiceTestSuite) TestConcurrentRevisionsGetDistinctVersions() {
	s.generator.On("GenerateDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("text", nil)
	s.generator.On("ReviseDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("more", nil)

	session, err := s.service.StartProposal(s.ctx, "Ana", models.DocMotion, "Parks")
	s.Require().NoError(err)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.ReviseProposal(s.ctx, *session, "again")
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	versions, err := s.service.ListVersions(s.ctx, session.ProposalID)
	s.Require().NoError(err)
	s.Require().Len(versions, workers+1)
	for i, v := range versions {
		s.Equal(workers+1-i, v.VersionNumber)
	}
}

func TestProposalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProposalServiceTestSuite))
}

// overlapGenerator reports how many revisions were in flight at once.
type overlapGenerator struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (g *overlapGenerator) GenerateDraft(ctx context.Context, author string, docType models.DocumentType, subject string) (string, error) {
	return "text", nil
}

func (g *overlapGenerator) ReviseDraft(ctx context.Context, priorText, instruction, author string, docType models.DocumentType) (string, error) {
	n := g.inFlight.Add(1)
	defer g.inFlight.Add(-1)
	for {
		peak := g.peak.Load()
		if n <= peak || g.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return "more", nil
}

func TestReviseProposal_SerializesPerProposal(t *testing.T) {
	fileStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	gen := &overlapGenerator{}
	service := NewProposalService(repositories.NewProposalRepository(fileStore), gen, node, nil, nil)
	ctx := context.Background()

	first, err := service.StartProposal(ctx, "Ana", models.DocMotion, "Parks")
	require.NoError(t, err)
	second, err := service.StartProposal(ctx, "Bia", models.DocBill, "Schools")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.ReviseProposal(ctx, *first, "again")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), gen.peak.Load(), "revisions of one proposal never overlap")

	for _, session := range []*models.DraftSession{first, second} {
		wg.Add(1)
		go func(session models.DraftSession) {
			defer wg.Done()
			_, err := service.ReviseProposal(ctx, session, "again")
			assert.NoError(t, err)
		}(*session)
	}
	wg.Wait()

	versions, err := service.ListVersions(ctx, first.ProposalID)
	require.NoError(t, err)
	assert.Len(t, versions, 6)
}

func TestDraftSessions(t *testing.T) {
	d := NewDraftSessions()

	_, ok := d.Get("u1")
	assert.False(t, ok)

	d.Set("u1", models.DraftSession{ProposalID: "p", Version: 2})
	got, ok := d.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, 2, got.Version)

	d.Clear("u1")
	_, ok = d.Get("u1")
	assert.False(t, ok)
}
