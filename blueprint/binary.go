package blueprint

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/bitdrifter-labs/ecsrt"
)

const binaryVersion byte = 1

// EncodeBinary renders bp as: 1-byte version, 4-byte little-endian
// component count, then per component a length-prefixed UTF-8 type name
// followed by a length-prefixed UTF-8 JSON value (§6).
func (c *Codec) EncodeBinary(bp *Blueprint) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(binaryVersion)

	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(bp.entries)))
	buf.Write(countBuf[:])

	for _, en := range bp.entries {
		raw, err := json.Marshal(en.value)
		if err != nil {
			return nil, err
		}
		writeLengthPrefixed(&buf, []byte(c.registry.TypeNameOf(en.id)))
		writeLengthPrefixed(&buf, raw)
	}
	return buf.Bytes(), nil
}

// DecodeBinary parses a binary payload produced by EncodeBinary. Fails
// with UnsupportedVersionError if the version byte isn't binaryVersion,
// or MalformedPayloadError on any truncated section.
func (c *Codec) DecodeBinary(data []byte) (*Blueprint, error) {
	r := bytes.NewReader(data)

	version, err := r.ReadByte()
	if err != nil {
		return nil, ecsrt.MalformedPayloadError{Reason: "empty payload"}
	}
	if version != binaryVersion {
		return nil, ecsrt.UnsupportedVersionError{Got: version, Want: binaryVersion}
	}

	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, ecsrt.MalformedPayloadError{Reason: "truncated component count"}
	}
	count := binary.LittleEndian.Uint32(countBuf[:])

	bp := New(c.registry)
	for i := uint32(0); i < count; i++ {
		name, err := readLengthPrefixed(r)
		if err != nil {
			return nil, err
		}
		raw, err := readLengthPrefixed(r)
		if err != nil {
			return nil, err
		}
		binding, ok := c.bindings[string(name)]
		if !ok {
			c.logger.Warn("no decoder bound for component type", zap.String("type_name", string(name)))
			return nil, ecsrt.NotFoundError{Subject: "decoder for type " + string(name)}
		}
		value, err := binding.decode(raw)
		if err != nil {
			c.logger.Warn("component decode failed", zap.String("type_name", string(name)), zap.Error(err))
			return nil, err
		}
		bp.setRaw(binding.id, value)
	}
	return bp, nil
}

func writeLengthPrefixed(buf *bytes.Buffer, b []byte) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
	buf.Write(lenBuf[:])
	buf.Write(b)
}

func readLengthPrefixed(r *bytes.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, ecsrt.MalformedPayloadError{Reason: "truncated length prefix"}
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, ecsrt.MalformedPayloadError{Reason: "truncated field"}
	}
	return out, nil
}
