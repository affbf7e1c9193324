package store

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gabinete-digital/models"

	json "github.com/goccy/go-json"
)

const (
	fileExt = ".jsonl"

	// maxLineSize bounds one encoded row; generated drafts are a few KB.
	maxLineSize = 16 << 20
)

type fileHeader struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
}

// FileStore keeps one newline-delimited JSON log per table. The first line
// of each file is a header with the column set; every other line is a row.
// Appends are real O_APPEND writes; writers to one table are serialized by a
// per-table mutex, so a single process never loses an update.
type FileStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

func (s *FileStore) tableLock(table string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[table]
	if !ok {
		l = &sync.Mutex{}
		s.locks[table] = l
	}
	return l
}

func (s *FileStore) path(table string) string {
	return filepath.Join(s.dir, table+fileExt)
}

func (s *FileStore) Append(ctx context.Context, table string, record Record) error {
	if !validTable(table) {
		return storageErr(table, "append", ErrInvalidTable)
	}
	if err := ctx.Err(); err != nil {
		return storageErr(table, "append", err)
	}

	l := s.tableLock(table)
	l.Lock()
	defer l.Unlock()

	fd, err := os.OpenFile(s.path(table), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return storageErr(table, "append", err)
	}
	defer fd.Close()

	stat, err := fd.Stat()
	if err != nil {
		return storageErr(table, "append", err)
	}

	size := stat.Size()
	if size > 0 {
		if size, err = truncateTornTail(fd, size); err != nil {
			return storageErr(table, "append", err)
		}
	}

	var buf bytes.Buffer
	if size == 0 {
		if err := writeLine(&buf, fileHeader{Table: table, Columns: sortedKeys(record)}); err != nil {
			return storageErr(table, "append", err)
		}
	}
	if err := writeLine(&buf, record); err != nil {
		return storageErr(table, "append", err)
	}

	// Header and row go out in a single write.
	if _, err := fd.Write(buf.Bytes()); err != nil {
		return storageErr(table, "append", err)
	}
	if err := fd.Sync(); err != nil {
		return storageErr(table, "append", err)
	}
	return nil
}

func (s *FileStore) ReadAll(ctx context.Context, table string) ([]Record, error) {
	if !validTable(table) {
		return nil, storageErr(table, "read_all", ErrInvalidTable)
	}
	if err := ctx.Err(); err != nil {
		return nil, storageErr(table, "read_all", err)
	}

	l := s.tableLock(table)
	l.Lock()
	defer l.Unlock()

	_, rows, err := s.load(table)
	if err != nil {
		return nil, storageErr(table, "read_all", err)
	}
	return rows, nil
}

func (s *FileStore) Columns(ctx context.Context, table string) ([]string, error) {
	if !validTable(table) {
		return nil, storageErr(table, "columns", ErrInvalidTable)
	}

	l := s.tableLock(table)
	l.Lock()
	defer l.Unlock()

	header, _, err := s.load(table)
	if err != nil {
		return nil, storageErr(table, "columns", err)
	}
	if header == nil {
		return nil, nil
	}
	return header.Columns, nil
}

func (s *FileStore) Overwrite(ctx context.Context, table string, rows []Record) error {
	if !validTable(table) {
		return storageErr(table, "overwrite", ErrInvalidTable)
	}
	if err := ctx.Err(); err != nil {
		return storageErr(table, "overwrite", err)
	}

	l := s.tableLock(table)
	l.Lock()
	defer l.Unlock()

	header, _, err := s.load(table)
	if err != nil {
		return storageErr(table, "overwrite", err)
	}
	if header == nil {
		header = &fileHeader{Table: table, Columns: []string{}}
		if len(rows) > 0 {
			header.Columns = sortedKeys(rows[0])
		}
	}

	var buf bytes.Buffer
	if err := writeLine(&buf, header); err != nil {
		return storageErr(table, "overwrite", err)
	}
	for _, row := range rows {
		if err := writeLine(&buf, row); err != nil {
			return storageErr(table, "overwrite", err)
		}
	}

	if err := replaceFile(s.path(table), buf.Bytes()); err != nil {
		return storageErr(table, "overwrite", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

// load reads header and rows; caller must hold the table lock. A final line
// without its newline is a torn append and is ignored.
func (s *FileStore) load(table string) (*fileHeader, []Record, error) {
	fd, err := os.Open(s.path(table))
	if os.IsNotExist(err) {
		return nil, []Record{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	defer fd.Close()

	reader := bufio.NewReader(fd)

	var header *fileHeader
	rows := []Record{}
	for lineNo := 1; ; lineNo++ {
		line, readErr := readLine(reader)
		if readErr == io.EOF {
			// Either clean end of file or a torn final line; both end the table.
			break
		}
		if readErr != nil {
			return nil, nil, readErr
		}
		if len(line) == 0 {
			continue
		}

		if header == nil {
			var h fileHeader
			if err := json.Unmarshal(line, &h); err != nil {
				return nil, nil, fmt.Errorf("corrupt header: %w", err)
			}
			header = &h
			continue
		}

		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, nil, fmt.Errorf("corrupt row at line %d: %w", lineNo, err)
		}
		rows = append(rows, r)
	}
	return header, rows, nil
}

// readLine returns one line without its newline. io.EOF means the line had no
// terminating newline.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > maxLineSize {
			return nil, fmt.Errorf("line exceeds %d bytes", maxLineSize)
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			return line, err
		}
		return line[:len(line)-1], nil
	}
}

// truncateTornTail cuts a final line that lacks its newline, left behind by
// an interrupted append, and returns the new file size.
func truncateTornTail(fd *os.File, size int64) (int64, error) {
	buf := make([]byte, 4096)
	end := size
	for end > 0 {
		start := end - int64(len(buf))
		if start < 0 {
			start = 0
		}
		chunk := buf[:end-start]
		if _, err := fd.ReadAt(chunk, start); err != nil {
			return 0, err
		}
		if i := bytes.LastIndexByte(chunk, '\n'); i >= 0 {
			keep := start + int64(i) + 1
			if keep == size {
				return size, nil
			}
			return keep, fd.Truncate(keep)
		}
		end = start
	}
	return 0, fd.Truncate(0)
}

func writeLine(buf *bytes.Buffer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	buf.WriteByte('\n')
	return nil
}

func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func storageErr(table, op string, err error) error {
	return &models.ErrorStorage{Table: table, Op: op, Err: err}
}
