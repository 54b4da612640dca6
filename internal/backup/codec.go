// Package backup decodes Firefox bookmark backup snapshots.
//
// Compressed snapshots (.jsonlz4) are the mozLz4 container: an 8-byte ASCII
// magic, a little-endian uint32 with the decompressed size, and a single raw
// LZ4 block holding UTF-8 JSON.
package backup

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pierrec/lz4/v4"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// magic is the fixed mozLz4 signature ("mozLz40\0").
var magic = []byte{'m', 'o', 'z', 'L', 'z', '4', '0', 0}

// headerLen is magic plus the uint32 size field.
var headerLen = len(magic) + 4

// maxDecodedSize guards against corrupt size fields allocating gigabytes.
const maxDecodedSize = 1 << 30

// DecodeFile reads a backup file and returns the root bookmark node.
// Plain .json files are parsed directly; compressed files go through the
// mozLz4 container. Every failure is reported against the source file and
// wraps apperr.ErrBadFormat.
func DecodeFile(bf models.BackupFile) (*models.BookmarkNode, error) {
	data, err := os.ReadFile(bf.Path)
	if err != nil {
		return nil, fmt.Errorf("backup: read %s: %w", bf.Path, err)
	}

	if bf.Compressed {
		data, err = decompress(data)
		if err != nil {
			return nil, fmt.Errorf("backup: %s: %w", bf.Path, err)
		}
	}

	var root models.BookmarkNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("backup: %s: parse bookmark tree: %w (%v)", bf.Path, apperr.ErrBadFormat, err)
	}
	return &root, nil
}

// EncodeFile writes node as a compressed mozLz4 snapshot at path.
func EncodeFile(path string, node *models.BookmarkNode) error {
	raw, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("backup: marshal bookmark tree: %w", err)
	}

	buf := make([]byte, headerLen+lz4.CompressBlockBound(len(raw)))
	copy(buf, magic)
	binary.LittleEndian.PutUint32(buf[len(magic):], uint32(len(raw)))

	n, err := lz4.CompressBlock(raw, buf[headerLen:], nil)
	if err != nil {
		return fmt.Errorf("backup: compress: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("backup: compress: incompressible payload")
	}

	if err := os.WriteFile(path, buf[:headerLen+n], 0o644); err != nil {
		return fmt.Errorf("backup: write %s: %w", path, err)
	}
	return nil
}

// decompress unpacks the mozLz4 container into raw JSON bytes.
func decompress(data []byte) ([]byte, error) {
	if len(data) < headerLen || string(data[:len(magic)]) != string(magic) {
		return nil, apperr.ErrBadFormat
	}

	size := binary.LittleEndian.Uint32(data[len(magic):headerLen])
	if size > maxDecodedSize {
		return nil, fmt.Errorf("%w (implausible size %d)", apperr.ErrBadFormat, size)
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data[headerLen:], out)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", apperr.ErrBadFormat, err)
	}
	return out[:n], nil
}
