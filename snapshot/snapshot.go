// Package snapshot provides a reference implementation of a compressed
// whole-World dump: entity/archetype counts plus archetype rows, each
// row holding its signature and the component values of every entity in
// it, encoded through a blueprint.Codec so the wire format can round
// trip through the same type bindings the blueprint package already
// maintains (§6, interface-level in spec.md, fleshed out here).
package snapshot

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"github.com/bitdrifter-labs/ecsrt"
	"github.com/bitdrifter-labs/ecsrt/blueprint"
	"github.com/klauspost/compress/zstd"
)

// Sentinel is the first byte of every snapshot payload, letting a
// caller recognize the format (and distinguish it from a bare zstd
// frame) before reading further.
const Sentinel byte = 0x7F

const formatVersion byte = 1

// Header is the fixed, uncompressed prefix of a snapshot payload:
// sentinel, format version, entity count, archetype count.
type Header struct {
	Version        byte
	EntityCount    uint32
	ArchetypeCount uint32
}

type componentValue struct {
	TypeName  string          `json:"type_name"`
	ValueJSON json.RawMessage `json:"value_json"`
}

type entityRow struct {
	ID         uint32           `json:"id"`
	Version    uint32           `json:"version"`
	Components []componentValue `json:"components"`
}

type archetypeRow struct {
	SignatureBits uint64      `json:"signature_bits"`
	Entities      []entityRow `json:"entities"`
}

// Write serializes w's entire entity/component state into out: an
// uncompressed sentinel+header, followed by a zstd-compressed body of
// archetype rows. Archetypes holding no entities are left out, and the
// header's archetype count covers only the rows written. Component
// values are read through w's registry and marshalled with
// encoding/json; codec is not consulted while writing.
func Write(out io.Writer, w *ecsrt.World, codec *blueprint.Codec) error {
	archetypes := w.Archetypes()

	rows := make([]archetypeRow, 0, len(archetypes))
	entityCount := 0
	for _, arch := range archetypes {
		if arch.Count() == 0 {
			continue
		}
		row, err := encodeArchetype(w.Registry(), arch)
		if err != nil {
			return err
		}
		entityCount += len(row.Entities)
		rows = append(rows, row)
	}

	if err := writeHeader(out, Header{
		Version:        formatVersion,
		EntityCount:    uint32(entityCount),
		ArchetypeCount: uint32(len(rows)),
	}); err != nil {
		return err
	}

	zw, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	body, err := json.Marshal(rows)
	if err != nil {
		zw.Close()
		return err
	}
	if _, err := zw.Write(body); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func writeHeader(out io.Writer, h Header) error {
	var buf [10]byte
	buf[0] = Sentinel
	buf[1] = h.Version
	binary.LittleEndian.PutUint32(buf[2:6], h.EntityCount)
	binary.LittleEndian.PutUint32(buf[6:10], h.ArchetypeCount)
	_, err := out.Write(buf[:])
	return err
}

// ReadHeader reads and validates the sentinel and fixed header from the
// front of r without touching the compressed body, so a caller can
// inspect a snapshot's shape (or reject an unsupported version) cheaply.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [10]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, ecsrt.MalformedPayloadError{Reason: "truncated snapshot header"}
	}
	if buf[0] != Sentinel {
		return Header{}, ecsrt.MalformedPayloadError{Reason: "missing snapshot sentinel byte"}
	}
	if buf[1] != formatVersion {
		return Header{}, ecsrt.UnsupportedVersionError{Got: buf[1], Want: formatVersion}
	}
	return Header{
		Version:        buf[1],
		EntityCount:    binary.LittleEndian.Uint32(buf[2:6]),
		ArchetypeCount: binary.LittleEndian.Uint32(buf[6:10]),
	}, nil
}

// Read parses a full snapshot payload (header + decompressed body) and
// replays it into a freshly constructed World. codec must bind every
// component type the snapshot can contain (the same codec, or one with
// identical RegisterType calls, used to Write it).
func Read(r io.Reader, codec *blueprint.Codec) (*ecsrt.World, Header, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, Header{}, err
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, Header{}, err
	}
	defer zr.Close()

	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, Header{}, ecsrt.MalformedPayloadError{Reason: err.Error()}
	}

	var rows []archetypeRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, Header{}, ecsrt.MalformedPayloadError{Reason: err.Error()}
	}

	w := ecsrt.NewWorld()
	for _, row := range rows {
		if err := decodeArchetype(w, codec, row); err != nil {
			return nil, Header{}, err
		}
	}
	return w, header, nil
}

func encodeArchetype(r *ecsrt.Registry, arch *ecsrt.Archetype) (archetypeRow, error) {
	sig := arch.Signature()
	row := archetypeRow{SignatureBits: sig.Bits()}

	for _, chunk := range arch.Chunks() {
		for i, e := range chunk.EntitiesSpan() {
			values, err := encodeEntityComponents(r, sig, chunk, i)
			if err != nil {
				return archetypeRow{}, err
			}
			row.Entities = append(row.Entities, entityRow{
				ID:         e.ID(),
				Version:    e.Version(),
				Components: values,
			})
		}
	}
	return row, nil
}

func encodeEntityComponents(r *ecsrt.Registry, sig ecsrt.Signature, chunk *ecsrt.Chunk, slot int) ([]componentValue, error) {
	var values []componentValue
	bits := sig.Bits()
	for id := ecsrt.ComponentID(0); bits != 0; id++ {
		bit := uint64(1) << uint(id)
		if bits&bit == 0 {
			continue
		}
		bits &^= bit

		val, err := r.GetAny(id, chunk, slot)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		values = append(values, componentValue{
			TypeName:  r.TypeNameOf(id),
			ValueJSON: raw,
		})
	}
	return values, nil
}

// decodeArchetype replays one archetype row into w. Restored entities
// get freshly allocated ids from w's own allocator; a snapshot does not
// guarantee the original (id, version) pairs survive a round trip, only
// the component data and archetype grouping.
func decodeArchetype(w *ecsrt.World, codec *blueprint.Codec, row archetypeRow) error {
	sig := ecsrt.SignatureFromBits(row.SignatureBits)
	arch := w.ArchetypeFor(sig)
	arch.Reserve(len(row.Entities))

	for _, er := range row.Entities {
		e, err := w.CreateEntityInArchetype(arch)
		if err != nil {
			return err
		}
		for _, cv := range er.Components {
			id, value, err := codec.DecodeValue(cv.TypeName, cv.ValueJSON)
			if err != nil {
				return err
			}
			if err := w.SetComponentAny(e, id, value); err != nil {
				return err
			}
		}
	}
	return nil
}
