package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// KeyCodec encodes and decodes one component of a table or index key. The
// byte strings Encode produces must sort, under bytes.Compare, in the same
// order as the Go values they represent — every table and index is just a
// forward scan over raw engine bytes, so this is the one invariant the
// whole package leans on.
type KeyCodec[K any] struct {
	Encode func(K) []byte
	Decode func([]byte) (K, error)
}

// EncodeUUID and DecodeUUID are the raw primitives behind UUIDKey,
// exported so hand-written composite key codecs (domain.PkgRepoID and
// similar join keys) can fold a UUID field into a larger encoded key
// without going through the single-field KeyCodec wrapper.
func EncodeUUID(u uuid.UUID) []byte {
	b := make([]byte, 16)
	copy(b, u[:])
	return b
}

func DecodeUUID(b []byte) (uuid.UUID, error) {
	if len(b) != 16 {
		return uuid.UUID{}, fmt.Errorf("store: uuid key must be 16 bytes, got %d", len(b))
	}
	var u uuid.UUID
	copy(u[:], b)
	return u, nil
}

// UUIDKey encodes a uuid.UUID as its 16 raw bytes. UUIDs are already
// fixed-width, so no escaping is needed and the encoding sorts the same as
// the byte-for-byte UUID representation (which is also the order of the
// canonical lowercase string form).
func UUIDKey() KeyCodec[uuid.UUID] {
	return KeyCodec[uuid.UUID]{Encode: EncodeUUID, Decode: DecodeUUID}
}

// Uint64Key encodes a uint64 as 8 big-endian bytes, so unsigned numeric
// order matches byte order.
func EncodeUint64(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func DecodeUint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("store: uint64 key must be 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

func Uint64Key() KeyCodec[uint64] {
	return KeyCodec[uint64]{Encode: EncodeUint64, Decode: DecodeUint64}
}

// Uint32Key encodes a uint32 as 4 big-endian bytes.
func EncodeUint32(n uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return b
}

func DecodeUint32(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("store: uint32 key must be 4 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

func Uint32Key() KeyCodec[uint32] {
	return KeyCodec[uint32]{Encode: EncodeUint32, Decode: DecodeUint32}
}

// Float64Key encodes a float64 so that IEEE-754 total order matches byte
// order: flip the sign bit for non-negative values and flip every bit for
// negative ones. This is the same trick used by every order-preserving KV
// encoding that supports floats, including the one this package started
// from.
func Float64Key() KeyCodec[float64] {
	return KeyCodec[float64]{
		Encode: func(f float64) []byte {
			bits := math.Float64bits(f)
			if f >= 0 {
				bits |= 1 << 63
			} else {
				bits = ^bits
			}
			b := make([]byte, 8)
			binary.BigEndian.PutUint64(b, bits)
			return b
		},
		Decode: func(b []byte) (float64, error) {
			if len(b) != 8 {
				return 0, fmt.Errorf("store: float64 key must be 8 bytes, got %d", len(b))
			}
			bits := binary.BigEndian.Uint64(b)
			if bits&(1<<63) != 0 {
				bits &^= 1 << 63
			} else {
				bits = ^bits
			}
			return math.Float64frombits(bits), nil
		},
	}
}

// StringKey encodes a string as its raw escaped bytes with no length
// prefix and no terminator. It is only order-preserving when the string is
// the sole key field, or the last field of a composite key — nothing may
// follow it in the encoded key. For a string that is not in trailing
// position, use EncodeBytesField in a hand-written composite codec instead.
func StringKey() KeyCodec[string] {
	return KeyCodec[string]{
		Encode: func(s string) []byte {
			return EncodeBytesTrailing([]byte(s))
		},
		Decode: func(b []byte) (string, error) {
			raw, err := DecodeBytesTrailing(b)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		},
	}
}

// EncodeBytesTrailing escapes 0x00 bytes as 0x00 0xFF. It is safe to use
// for the last field of a composite key (or a standalone string key)
// because nothing follows it that a terminator would need to be
// distinguished from.
func EncodeBytesTrailing(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == 0x00 {
			out = append(out, 0x00, 0xFF)
		} else {
			out = append(out, c)
		}
	}
	return out
}

// DecodeBytesTrailing reverses EncodeBytesTrailing.
func DecodeBytesTrailing(b []byte) ([]byte, error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == 0x00 {
			if i+1 >= len(b) || b[i+1] != 0xFF {
				return nil, fmt.Errorf("store: malformed trailing byte-string encoding")
			}
			out = append(out, 0x00)
			i++
			continue
		}
		out = append(out, b[i])
	}
	return out, nil
}

// EncodeBytesField order-preserving encodes b for use as a non-trailing
// field of a composite key: every 0x00 byte is escaped to 0x00 0xFF, and
// the field is terminated with 0x00 0x00. The terminator sorts before any
// escaped continuation byte, so a tuple whose field is a strict prefix of
// another tuple's same field always sorts first — matching ordinary
// string comparison ("foo" < "foobar").
func EncodeBytesField(b []byte) []byte {
	out := EncodeBytesTrailing(b)
	return append(out, 0x00, 0x00)
}

// DecodeBytesField reads one terminated field off the front of b and
// returns the decoded value plus the remaining, still-encoded bytes.
func DecodeBytesField(b []byte) (value []byte, rest []byte, err error) {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == 0x00 {
			if i+1 >= len(b) {
				return nil, nil, fmt.Errorf("store: truncated composite-key field")
			}
			switch b[i+1] {
			case 0xFF:
				out = append(out, 0x00)
				i++
			case 0x00:
				return out, b[i+2:], nil
			default:
				return nil, nil, fmt.Errorf("store: malformed composite-key field escape")
			}
			continue
		}
		out = append(out, b[i])
	}
	return nil, nil, fmt.Errorf("store: unterminated composite-key field")
}

// EncodeValue serializes a row value with msgpack. Struct fields absent
// from an older encoding decode to their zero value, so new optional
// fields can be added to V without a migration step.
func EncodeValue(v any) ([]byte, error) {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode value: %w", err)
	}
	return b, nil
}

// DecodeValue deserializes a row value previously written by EncodeValue.
func DecodeValue(b []byte, out any) error {
	if err := msgpack.Unmarshal(b, out); err != nil {
		return fmt.Errorf("store: decode value: %w", err)
	}
	return nil
}
