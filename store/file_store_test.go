package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gabinete-digital/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	return s, dir
}

func TestFileStore_ReadAllUnknownTable(t *testing.T) {
	s, _ := newTestFileStore(t)

	rows, err := s.ReadAll(context.Background(), TableIdeas)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	columns, err := s.Columns(context.Background(), TableIdeas)
	require.NoError(t, err)
	assert.Nil(t, columns)
}

func TestFileStore_AppendCreatesTableWithColumns(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, TablePosts, Record{"title": "Sessão", "body": "Pauta", "author": "A"}))
	require.NoError(t, s.Append(ctx, TablePosts, Record{"title": "Second", "body": "More", "author": "B"}))

	columns, err := s.Columns(ctx, TablePosts)
	require.NoError(t, err)
	assert.Equal(t, []string{"author", "body", "title"}, columns)

	rows, err := s.ReadAll(ctx, TablePosts)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sessão", rows[0]["title"])
	assert.Equal(t, "Second", rows[1]["title"])
}

func TestFileStore_TablesAreIndependent(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, TableDrafts, Record{"proposal_id": "p1", "version_number": "1"}))
	require.NoError(t, s.Append(ctx, TableIdeas, Record{"id": "i1"}))
	require.NoError(t, s.Append(ctx, TableIdeas, Record{"id": "i2"}))

	drafts, err := s.ReadAll(ctx, TableDrafts)
	require.NoError(t, err)
	assert.Equal(t, []Record{{"proposal_id": "p1", "version_number": "1"}}, drafts)

	posts, err := s.ReadAll(ctx, TablePosts)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFileStore_Overwrite(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(ctx, TableIdeas, Record{"id": fmt.Sprint(i)}))
	}

	require.NoError(t, s.Overwrite(ctx, TableIdeas, []Record{{"id": "2"}}))

	rows, err := s.ReadAll(ctx, TableIdeas)
	require.NoError(t, err)
	assert.Equal(t, []Record{{"id": "2"}}, rows)

	columns, err := s.Columns(ctx, TableIdeas)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, columns)

	require.NoError(t, s.Append(ctx, TableIdeas, Record{"id": "3"}))
	rows, err = s.ReadAll(ctx, TableIdeas)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFileStore_OverwriteEmptyTable(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Overwrite(ctx, TablePosts, nil))

	rows, err := s.ReadAll(ctx, TablePosts)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	s, dir := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, TableUsers, Record{"email": "a@b.c"}))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	rows, err := reopened.ReadAll(ctx, TableUsers)
	require.NoError(t, err)
	assert.Equal(t, []Record{{"email": "a@b.c"}}, rows)
}

func TestFileStore_TornTailIsIgnoredAndRepaired(t *testing.T) {
	s, dir := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, TableIdeas, Record{"id": "1"}))

	f, err := os.OpenFile(filepath.Join(dir, TableIdeas+fileExt), os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"id":"tor`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := s.ReadAll(ctx, TableIdeas)
	require.NoError(t, err)
	assert.Equal(t, []Record{{"id": "1"}}, rows)

	require.NoError(t, s.Append(ctx, TableIdeas, Record{"id": "2"}))
	rows, err = s.ReadAll(ctx, TableIdeas)
	require.NoError(t, err)
	assert.Equal(t, []Record{{"id": "1"}, {"id": "2"}}, rows)
}

func TestFileStore_ConcurrentAppendsAreNotLost(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Append(ctx, TableIdeas, Record{"id": fmt.Sprint(i)}))
		}(i)
	}
	wg.Wait()

	rows, err := s.ReadAll(ctx, TableIdeas)
	require.NoError(t, err)
	assert.Len(t, rows, writers)
}

func TestFileStore_InvalidTableName(t *testing.T) {
	s, _ := newTestFileStore(t)

	err := s.Append(context.Background(), "../escape", Record{"a": "b"})
	require.Error(t, err)

	var storageErr *models.ErrorStorage
	require.True(t, errors.As(err, &storageErr))
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestFileStore_CancelledContext(t *testing.T) {
	s, _ := newTestFileStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Append(ctx, TableIdeas, Record{"id": "1"})
	assert.ErrorIs(t, err, context.Canceled)
}
