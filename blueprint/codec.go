package blueprint

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/bitdrifter-labs/ecsrt"
)

type decodeFunc func(raw json.RawMessage) (any, error)

type typeBinding struct {
	id     ecsrt.ComponentID
	decode decodeFunc
}

// Codec (de)serializes Blueprints to the textual and binary formats
// described in §6. Decoding requires every component type that might
// appear in a payload to have been registered on the codec first via
// RegisterType, since a JSON value alone carries no Go type information.
type Codec struct {
	registry *ecsrt.Registry
	bindings map[string]typeBinding
	logger   *zap.Logger
}

// NewCodec constructs a Codec bound to r. Blueprints produced by Decode*
// are bound to the same registry.
func NewCodec(r *ecsrt.Registry) *Codec {
	return &Codec{registry: r, bindings: make(map[string]typeBinding), logger: zap.NewNop()}
}

// SetLogger installs a structured logger the codec uses to report
// per-component decode failures (an unbound type name, or a value that
// does not unmarshal) before returning them. A nil logger restores the
// no-op default.
func (c *Codec) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// RegisterType enables T to be decoded by this codec, keyed by its
// fully qualified type name as reported by Registry.TypeNameOf.
func RegisterType[T any](c *Codec) {
	id := ecsrt.MustRegister[T](c.registry)
	name := c.registry.TypeNameOf(id)
	c.bindings[name] = typeBinding{
		id: id,
		decode: func(raw json.RawMessage) (any, error) {
			var v T
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, ecsrt.MalformedPayloadError{Reason: err.Error()}
			}
			return v, nil
		},
	}
}

type textualComponent struct {
	TypeName  string          `json:"type_name"`
	ValueJSON json.RawMessage `json:"value_json"`
}

type textualDocument struct {
	Components []textualComponent `json:"components"`
}

// EncodeTextual renders bp as {"components":[{"type_name":...,
// "value_json":...}]}.
func (c *Codec) EncodeTextual(bp *Blueprint) ([]byte, error) {
	doc := textualDocument{Components: make([]textualComponent, 0, len(bp.entries))}
	for _, en := range bp.entries {
		raw, err := json.Marshal(en.value)
		if err != nil {
			return nil, err
		}
		doc.Components = append(doc.Components, textualComponent{
			TypeName:  c.registry.TypeNameOf(en.id),
			ValueJSON: raw,
		})
	}
	return json.Marshal(doc)
}

// DecodeValue decodes a single component value given its registered
// type name and raw JSON value, returning its ComponentID alongside the
// decoded value. Used by collaborators (the snapshot package) that
// reconstruct entities one component at a time rather than through a
// full textual document.
func (c *Codec) DecodeValue(typeName string, raw json.RawMessage) (ecsrt.ComponentID, any, error) {
	binding, ok := c.bindings[typeName]
	if !ok {
		c.logger.Warn("no decoder bound for component type", zap.String("type_name", typeName))
		return 0, nil, ecsrt.NotFoundError{Subject: "decoder for type " + typeName}
	}
	value, err := binding.decode(raw)
	if err != nil {
		c.logger.Warn("component decode failed", zap.String("type_name", typeName), zap.Error(err))
		return 0, nil, err
	}
	return binding.id, value, nil
}

// DecodeTextual parses a textual document into a new Blueprint. Every
// component's type_name must have a binding registered via RegisterType;
// an unbound type yields a NotFoundError.
func (c *Codec) DecodeTextual(data []byte) (*Blueprint, error) {
	var doc textualDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ecsrt.MalformedPayloadError{Reason: err.Error()}
	}
	bp := New(c.registry)
	for _, comp := range doc.Components {
		binding, ok := c.bindings[comp.TypeName]
		if !ok {
			c.logger.Warn("no decoder bound for component type", zap.String("type_name", comp.TypeName))
			return nil, ecsrt.NotFoundError{Subject: "decoder for type " + comp.TypeName}
		}
		value, err := binding.decode(comp.ValueJSON)
		if err != nil {
			c.logger.Warn("component decode failed", zap.String("type_name", comp.TypeName), zap.Error(err))
			return nil, err
		}
		bp.setRaw(binding.id, value)
	}
	return bp, nil
}
