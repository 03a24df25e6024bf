// Package storage persists tables as a directory of compressed column files.
//
// # Layout
//
// A stored table is a directory holding metadata.json and one data file per
// column. Each data file is named by the column's random UUID, so column
// names never have to be valid file names:
//
//	people.saw/
//	├── metadata.json
//	├── 5b0c6c3e-8a7d-4f0e-9d55-3c1f1f2d6a10
//	└── 9e2f1a44-0b6b-4c2e-a1f7-7d4a9c3e8b21
//
// metadata.json records the format version, table name, row count,
// compression and, in column order, each column's id, name, type, size and
// the xxHash64 checksum of its uncompressed payload.
//
// A data file starts with a 16-byte section.ColumnHeader followed by the
// payload as a single stream of the chosen compress.Codec.
//
// # Usage
//
//	w, err := storage.NewWriter(storage.WithCompression(format.CompressionZstd))
//	meta, err := w.Write("/data/people.saw", t)
//
//	r, err := storage.NewReader()
//	t, err := r.Read("/data/people.saw")
//
// Writers and readers process up to Concurrency columns at a time and stop
// at the first failing column. Verify checks every column without stopping,
// which is what to run against a directory that fails to load.
package storage
