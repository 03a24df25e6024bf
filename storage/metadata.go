package storage

import (
	"fmt"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/arloliu/coltab/compress"
	"github.com/arloliu/coltab/errs"
	"github.com/arloliu/coltab/format"
)

const (
	// MetadataFileName is the name of the table description inside a table directory.
	MetadataFileName = "metadata.json"
	// FormatVersion is the metadata version written by this package.
	FormatVersion = 1
	// TableExtension is appended to directories created by SaveTable.
	TableExtension = ".saw"
)

// TableMetadata describes a stored table.
type TableMetadata struct {
	Version     int                    `json:"version"`
	Name        string                 `json:"name"`
	RowCount    int                    `json:"rowCount"`
	Compression format.CompressionType `json:"compression"`
	Columns     []ColumnMetadata       `json:"columns"`
}

// ColumnMetadata describes one stored column. ID is also the data file name.
//
// EncodedSize and StoredSize are the payload byte counts before and after
// compression. Both are zero when unknown.
type ColumnMetadata struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        format.ColumnType `json:"type"`
	Size        int               `json:"size"`
	Checksum    string            `json:"checksum,omitempty"`
	EncodedSize int64             `json:"encodedSize,omitempty"`
	StoredSize  int64             `json:"storedSize,omitempty"`
}

// Stats returns the compression statistics of column i.
func (m *TableMetadata) Stats(i int) compress.Stats {
	c := m.Columns[i]

	return compress.Stats{Algorithm: m.Compression, OriginalSize: c.EncodedSize, CompressedSize: c.StoredSize}
}

// TotalStats sums the compression statistics of every column.
func (m *TableMetadata) TotalStats() compress.Stats {
	total := compress.Stats{Algorithm: m.Compression}
	for i := range m.Columns {
		total = total.Add(m.Stats(i))
	}

	return total
}

// ColumnNames returns the column names in stored order.
func (m *TableMetadata) ColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = c.Name
	}

	return names
}

// Validate checks internal consistency: known version, unique UUID ids,
// known types and one size shared by every column.
func (m *TableMetadata) Validate() error {
	if m.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidMetadata, m.Version)
	}
	if m.RowCount < 0 {
		return fmt.Errorf("%w: negative row count %d", errs.ErrInvalidMetadata, m.RowCount)
	}

	seen := make(map[string]struct{}, len(m.Columns))
	for i, c := range m.Columns {
		if _, err := uuid.Parse(c.ID); err != nil {
			return fmt.Errorf("%w: column %d has invalid id %q", errs.ErrInvalidMetadata, i, c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate column id %s", errs.ErrInvalidMetadata, c.ID)
		}
		seen[c.ID] = struct{}{}

		if !c.Type.IsValid() {
			return fmt.Errorf("%w: column %q has unknown type", errs.ErrInvalidMetadata, c.Name)
		}
		if c.Size != m.RowCount {
			return fmt.Errorf("%w: column %q has %d rows, table has %d", errs.ErrInvalidMetadata, c.Name, c.Size, m.RowCount)
		}
		if c.EncodedSize < 0 || c.StoredSize < 0 {
			return fmt.Errorf("%w: column %q has negative byte sizes", errs.ErrInvalidMetadata, c.Name)
		}
	}

	return nil
}

func readMetadata(fs afero.Fs, dir string) (*TableMetadata, error) {
	data, err := afero.ReadFile(fs, filepath.Join(dir, MetadataFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
	}

	var meta TableMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	return &meta, nil
}

// writeMetadata replaces the metadata file through a rename so readers never
// see a partially written description.
func writeMetadata(fs afero.Fs, dir string, meta *TableMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}

	final := filepath.Join(dir, MetadataFileName)
	tmp := final + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o644); err != nil {
		return err
	}
	if err := fs.Rename(tmp, final); err != nil {
		_ = fs.Remove(tmp)
		return err
	}

	return nil
}

// previousColumnIDs returns the ids listed by an existing metadata file, or
// nil when the directory holds no readable table.
func previousColumnIDs(fs afero.Fs, dir string) []string {
	meta, err := readMetadata(fs, dir)
	if err != nil {
		return nil
	}

	ids := make([]string, len(meta.Columns))
	for i, c := range meta.Columns {
		ids[i] = c.ID
	}

	return ids
}
