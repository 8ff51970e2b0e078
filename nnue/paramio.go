package nnue

import (
	"fmt"
	"io"

	"github.com/corvid-chess/nnuecore/nnue/common"
)

// formatVersion identifies the parameter file layout this loader reads.
// Bumping it is a breaking change to every existing .nnue file.
const formatVersion uint32 = 0x7af32f21

// readHeader reads the format version, declared network hash, and
// free-form description preceding the parameter blocks.
func readHeader(r io.Reader) (hash uint32, description string, err error) {
	version, err := common.ReadLittleEndian[uint32](r)
	if err != nil {
		return 0, "", fmt.Errorf("read version: %w", err)
	}
	if version != formatVersion {
		return 0, "", fmt.Errorf("version mismatch: want %08x, got %08x", formatVersion, version)
	}

	hash, err = common.ReadLittleEndian[uint32](r)
	if err != nil {
		return 0, "", fmt.Errorf("read hash: %w", err)
	}

	descSize, err := common.ReadLittleEndian[uint32](r)
	if err != nil {
		return 0, "", fmt.Errorf("read description size: %w", err)
	}
	descBytes := make([]byte, descSize)
	if _, err := io.ReadFull(r, descBytes); err != nil {
		return 0, "", fmt.Errorf("read description: %w", err)
	}

	return hash, string(descBytes), nil
}

// readBlockHash reads the uint32 hash a parameter block is prefixed with
// and compares it against the value the reading component expects.
func readBlockHash(r io.Reader, want uint32, what string) error {
	got, err := common.ReadLittleEndian[uint32](r)
	if err != nil {
		return fmt.Errorf("read %s hash: %w", what, err)
	}
	if got != want {
		return fmt.Errorf("%s hash mismatch: want %08x, got %08x", what, want, got)
	}
	return nil
}
