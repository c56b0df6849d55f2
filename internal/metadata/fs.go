package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hibik17/ais-search/internal/domain"
)

// FSStore reads metadata records from a directory of id_<id>.json files,
// the layout the corpus is published in.
type FSStore struct {
	dir string
}

var _ Store = (*FSStore)(nil)

// NewFS creates a filesystem metadata store rooted at dir.
func NewFS(dir string) (*FSStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("metadata dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("metadata dir %s is not a directory", dir)
	}
	return &FSStore{dir: dir}, nil
}

// Record loads and decodes one article record.
func (s *FSStore) Record(_ context.Context, articleID string) (Record, error) {
	if articleID == "" || strings.ContainsAny(articleID, `/\`) || articleID != filepath.Base(articleID) {
		return Record{}, fmt.Errorf("invalid article id %q: %w", articleID, domain.ErrMetadataNotFound)
	}

	path := filepath.Join(s.dir, "id_"+articleID+".json")
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, fmt.Errorf("article %s: %w", articleID, domain.ErrMetadataNotFound)
		}
		return Record{}, fmt.Errorf("read article %s: %w", articleID, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decode article %s: %w", articleID, err)
	}
	return rec, nil
}
