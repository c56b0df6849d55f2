package doc2vec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hibik17/ais-search/internal/domain"
)

// Artifact layout (little-endian):
//
//	magic [8]byte "AISD2V\x00\x01"
//	dim, nWords, nDocs uint32
//	words: nWords × { keyLen uint32, key, vec [dim]float32 }
//	docs:  nDocs  × { keyLen uint32, key, count uint32, vec [dim]float32 }
//
// Documents are stored in offset order.
var magic = [8]byte{'A', 'I', 'S', 'D', '2', 'V', 0, 1}

const maxKeyLen = 1 << 16

// VariantPath returns the artifact path for a model variant,
// <dir>/<name>_<variant>.d2v.
func VariantPath(dir, name, variant string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.d2v", name, variant))
}

// Open loads a model artifact. A missing file maps to domain.ErrModelNotFound,
// an unreadable one to domain.ErrModelCorrupt.
func Open(path string) (*Model, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrModelNotFound)
		}
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	m, err := Read(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, domain.ErrModelCorrupt, err)
	}
	return m, nil
}

// Read decodes a model artifact from a stream.
func Read(r io.Reader) (*Model, error) {
	var got [8]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if got != magic {
		return nil, fmt.Errorf("bad magic %q", got[:])
	}

	var dim, nWords, nDocs uint32
	for _, p := range []*uint32{&dim, &nWords, &nDocs} {
		if err := binary.Read(r, binary.LittleEndian, p); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
	}
	if dim == 0 {
		return nil, fmt.Errorf("zero dimensionality")
	}

	b := NewBuilder(int(dim))
	vec := make([]float32, dim)

	for i := uint32(0); i < nWords; i++ {
		key, err := readKey(r)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("word %q vector: %w", key, err)
		}
		if err := b.PutWord(key, vec); err != nil {
			return nil, err
		}
	}

	for i := uint32(0); i < nDocs; i++ {
		key, err := readKey(r)
		if err != nil {
			return nil, fmt.Errorf("doc %d: %w", i, err)
		}
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, fmt.Errorf("doc %q count: %w", key, err)
		}
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("doc %q vector: %w", key, err)
		}
		if err := b.PutDoc(key, int(count), vec); err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}

// Write encodes a model artifact to a file.
func Write(m *Model, path string) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create model %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriterSize(f, 1<<20)
	if err := writeTo(m, w); err != nil {
		return fmt.Errorf("write model %s: %w", path, err)
	}
	return w.Flush()
}

func writeTo(m *Model, w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	hdr := []uint32{uint32(m.dim), uint32(len(m.words)), uint32(len(m.docKeys))}
	for _, v := range hdr {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	// Word order is not significant; map order is fine for the artifact.
	for word, vec := range m.words {
		if err := writeKey(w, word); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
			return err
		}
	}

	for i, key := range m.docKeys {
		if err := writeKey(w, key); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(m.counts[i])); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, m.docVecs[i]); err != nil {
			return err
		}
	}
	return nil
}

func readKey(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", fmt.Errorf("read key length: %w", err)
	}
	if n == 0 || n > maxKeyLen {
		return "", fmt.Errorf("key length %d out of range", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}
	return string(buf), nil
}

func writeKey(w io.Writer, key string) error {
	if len(key) == 0 || len(key) > maxKeyLen {
		return fmt.Errorf("key length %d out of range", len(key))
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(key))); err != nil {
		return err
	}
	_, err := io.WriteString(w, key)
	return err
}
