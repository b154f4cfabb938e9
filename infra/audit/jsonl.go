package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"

	coreaudit "github.com/kilianp07/apireg/core/audit"
)

// JSONLStore stores records in a JSONL file.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore creates the file if needed.
func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

func (s *JSONLStore) Append(ctx context.Context, rec coreaudit.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

func (s *JSONLStore) Query(ctx context.Context, q coreaudit.Query) ([]coreaudit.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return queryFile(ctx, s.path, q)
}

func (s *JSONLStore) Close() error { return nil }

// queryFile reads a JSONL file line by line, skipping lines that do not
// decode. Lines have no length limit.
func queryFile(ctx context.Context, path string, q coreaudit.Query) ([]coreaudit.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []coreaudit.Record
	rd := bufio.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, rerr := rd.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			var r coreaudit.Record
			if err := json.Unmarshal(line, &r); err == nil && q.Matches(r) {
				res = append(res, r)
			}
		}
		if errors.Is(rerr, io.EOF) {
			return res, nil
		}
		if rerr != nil {
			return nil, rerr
		}
	}
}
