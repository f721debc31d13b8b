// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

// Package savefile reads and writes simulation save files: a parking
// [parking.Snapshot] serialized to deterministic CBOR, optionally
// compressed, wrapped in a small container with a keyed BLAKE3
// checksum. The checksum covers the uncompressed payload, so
// corruption is detected regardless of which compression wrote the
// file.
package savefile

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/streetsim-foundation/streetsim/lib/codec"
	"github.com/streetsim-foundation/streetsim/lib/parking"
)

// Compression identifies the algorithm used for the payload. The
// values are container format constants; changing them breaks
// existing save files.
type Compression uint8

const (
	// None stores the CBOR payload as-is. Also the automatic
	// fallback when compression would not shrink the payload.
	None Compression = 0

	// LZ4 block compression: fast, modest ratio.
	LZ4 Compression = 1

	// Zstd at the default level: better ratio on the highly
	// repetitive entry slices large snapshots are made of.
	Zstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name as it appears in run
// configuration.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// Container layout: magic(4) | version(1) | compression(1) |
// uncompressed size(8, little-endian) | BLAKE3 checksum(32) |
// payload. The checksum is keyed with a fixed domain key over the
// uncompressed CBOR bytes.

var magic = [4]byte{'S', 'S', 'A', 'V'}

const (
	formatVersion = 1
	headerSize    = 4 + 1 + 1 + 8 + 32
)

// checksumKey is the BLAKE3 domain key for save-file checksums: the
// ASCII domain name zero-padded to 32 bytes, readable in hex dumps.
var checksumKey = [32]byte{
	's', 't', 'r', 'e', 'e', 't', 's', 'i', 'm', '.',
	's', 'a', 'v', 'e', 'f', 'i', 'l', 'e',
}

// zstd coders are reused across calls; both are safe for concurrent
// use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("savefile: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("savefile: zstd decoder initialization failed: " + err.Error())
	}
}

// Encode serializes a snapshot into container bytes. When the chosen
// compression does not shrink the payload the container is written
// uncompressed instead, so Encode never inflates data.
func Encode(snap *parking.Snapshot, compression Compression) ([]byte, error) {
	payload, err := codec.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("savefile: encoding snapshot: %w", err)
	}

	stored, storedTag, err := compress(payload, compression)
	if err != nil {
		return nil, err
	}

	checksum := keyedChecksum(payload)

	out := make([]byte, 0, headerSize+len(stored))
	out = append(out, magic[:]...)
	out = append(out, formatVersion, byte(storedTag))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(payload)))
	out = append(out, checksum[:]...)
	out = append(out, stored...)
	return out, nil
}

// Decode parses container bytes back into a snapshot, verifying the
// checksum against the decompressed payload.
func Decode(data []byte) (*parking.Snapshot, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("savefile: truncated container (%d bytes)", len(data))
	}
	if [4]byte(data[:4]) != magic {
		return nil, fmt.Errorf("savefile: bad magic %q", data[:4])
	}
	if data[4] != formatVersion {
		return nil, fmt.Errorf("savefile: unsupported format version %d", data[4])
	}
	compression := Compression(data[5])
	uncompressedSize := binary.LittleEndian.Uint64(data[6:14])
	var checksum [32]byte
	copy(checksum[:], data[14:46])

	payload, err := decompress(data[headerSize:], compression, int(uncompressedSize))
	if err != nil {
		return nil, err
	}
	if keyedChecksum(payload) != checksum {
		return nil, fmt.Errorf("savefile: checksum mismatch, file is corrupt")
	}

	var snap parking.Snapshot
	if err := codec.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("savefile: decoding snapshot: %w", err)
	}
	return &snap, nil
}

// Write encodes a snapshot and writes it to path atomically enough
// for a single-writer simulation: a temp file in the same directory,
// renamed into place.
func Write(path string, snap *parking.Snapshot, compression Compression) error {
	data, err := Encode(snap, compression)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("savefile: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("savefile: renaming into %s: %w", path, err)
	}
	return nil
}

// Read loads and decodes a save file.
func Read(path string) (*parking.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("savefile: reading %s: %w", path, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func keyedChecksum(payload []byte) [32]byte {
	hasher, err := blake3.NewKeyed(checksumKey[:])
	if err != nil {
		panic("savefile: BLAKE3 keyed hasher initialization failed: " + err.Error())
	}
	hasher.Write(payload)
	var sum [32]byte
	hasher.Sum(sum[:0])
	return sum
}

func compress(payload []byte, compression Compression) ([]byte, Compression, error) {
	switch compression {
	case None:
		return payload, None, nil

	case LZ4:
		bound := lz4.CompressBlockBound(len(payload))
		dst := make([]byte, bound)
		written, err := lz4.CompressBlock(payload, dst, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("savefile: lz4 compress: %w", err)
		}
		// CompressBlock returns 0 for incompressible input; also
		// fall back when the output is not actually smaller.
		if written == 0 || written >= len(payload) {
			return payload, None, nil
		}
		return dst[:written], LZ4, nil

	case Zstd:
		compressed := zstdEncoder.EncodeAll(payload, nil)
		if len(compressed) >= len(payload) {
			return payload, None, nil
		}
		return compressed, Zstd, nil

	default:
		return nil, 0, fmt.Errorf("savefile: unsupported compression %d", compression)
	}
}

func decompress(stored []byte, compression Compression, uncompressedSize int) ([]byte, error) {
	switch compression {
	case None:
		if len(stored) != uncompressedSize {
			return nil, fmt.Errorf("savefile: stored size %d does not match header %d",
				len(stored), uncompressedSize)
		}
		return stored, nil

	case LZ4:
		dst := make([]byte, uncompressedSize)
		read, err := lz4.UncompressBlock(stored, dst)
		if err != nil {
			return nil, fmt.Errorf("savefile: lz4 decompress: %w", err)
		}
		if read != uncompressedSize {
			return nil, fmt.Errorf("savefile: lz4 decompressed %d bytes, header says %d",
				read, uncompressedSize)
		}
		return dst, nil

	case Zstd:
		dst, err := zstdDecoder.DecodeAll(stored, make([]byte, 0, uncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("savefile: zstd decompress: %w", err)
		}
		if len(dst) != uncompressedSize {
			return nil, fmt.Errorf("savefile: zstd decompressed %d bytes, header says %d",
				len(dst), uncompressedSize)
		}
		return dst, nil

	default:
		return nil, fmt.Errorf("savefile: unsupported compression tag %d", compression)
	}
}
