// Package memory implements the tiered collective-memory store: echoes of
// system activity are recorded, aged through retention tiers, compressed
// under capacity pressure, and periodically frozen into snapshots.
package memory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EchoType categorizes an echo. The set is closed.
type EchoType string

const (
	TypeInteraction EchoType = "interaction"
	TypeEmotion     EchoType = "emotion"
	TypeWisdom      EchoType = "wisdom"
	TypeMemory      EchoType = "memory"
	TypeDream       EchoType = "dream"
	TypeQuestion    EchoType = "question"
	TypeRevelation  EchoType = "revelation"
)

var echoTypes = map[EchoType]bool{
	TypeInteraction: true,
	TypeEmotion:     true,
	TypeWisdom:      true,
	TypeMemory:      true,
	TypeDream:       true,
	TypeQuestion:    true,
	TypeRevelation:  true,
}

// ParseEchoType validates a type name. The empty string is not a type.
func ParseEchoType(s string) (EchoType, error) {
	t := EchoType(strings.ToLower(s))
	if !echoTypes[t] {
		return "", fmt.Errorf("unknown echo type %q", s)
	}
	return t, nil
}

// Echo is a single stored memory entry. Content, AuthorID, Type, and
// CreatedAt are immutable after creation; Weight, Resonance, and Meta are
// the only fields the store mutates.
type Echo struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	Type      EchoType  `json:"type"`
	CreatedAt time.Time `json:"timestamp"`

	Weight    float64              `json:"weight"`
	Resonance int                  `json:"resonance"`
	Meta      map[string]MetaValue `json:"metadata,omitempty"`
}

// IsEmpty reports whether the echo carries no meaningful content.
// Empty echoes are accepted and tracked; the empty ratio feeds the
// health classification.
func (e *Echo) IsEmpty() bool {
	return strings.TrimSpace(e.Content) == ""
}

// Significance is the eviction score: base weight survives even for
// echoes that were never retrieved.
func (e *Echo) Significance() float64 {
	return e.Weight * float64(e.Resonance+1)
}

func (e *Echo) clone() Echo {
	c := *e
	if e.Meta != nil {
		c.Meta = make(map[string]MetaValue, len(e.Meta))
		for k, v := range e.Meta {
			c.Meta[k] = v
		}
	}
	return c
}

// MetaKind discriminates a MetaValue.
type MetaKind int

const (
	MetaNone MetaKind = iota
	MetaString
	MetaNumber
	MetaBool
	MetaMap
)

// MetaValue is one entry in an echo's open metadata bag: a string, a
// number, a bool, or a nested map. Keeping the value set closed keeps
// snapshot serialization well-defined.
type MetaValue struct {
	Kind MetaKind
	Str  string
	Num  float64
	Bool bool
	Map  map[string]MetaValue
}

// String returns a string-valued MetaValue.
func String(s string) MetaValue { return MetaValue{Kind: MetaString, Str: s} }

// Number returns a number-valued MetaValue.
func Number(n float64) MetaValue { return MetaValue{Kind: MetaNumber, Num: n} }

// Bool returns a bool-valued MetaValue.
func Bool(b bool) MetaValue { return MetaValue{Kind: MetaBool, Bool: b} }

// Map returns a nested-map MetaValue.
func Map(m map[string]MetaValue) MetaValue { return MetaValue{Kind: MetaMap, Map: m} }

// MarshalJSON emits the bare underlying value.
func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case MetaString:
		return json.Marshal(v.Str)
	case MetaNumber:
		return json.Marshal(v.Num)
	case MetaBool:
		return json.Marshal(v.Bool)
	case MetaMap:
		return json.Marshal(v.Map)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a bare string, number, bool, or object. Anything
// else (arrays, null) is rejected so metadata stays within the closed set.
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case string:
		*v = String(val)
	case float64:
		*v = Number(val)
	case bool:
		*v = Bool(val)
	case map[string]any:
		m := make(map[string]MetaValue, len(val))
		for k, inner := range val {
			b, err := json.Marshal(inner)
			if err != nil {
				return err
			}
			var mv MetaValue
			if err := mv.UnmarshalJSON(b); err != nil {
				return fmt.Errorf("metadata key %q: %w", k, err)
			}
			m[k] = mv
		}
		*v = Map(m)
	default:
		return fmt.Errorf("unsupported metadata value %s", string(data))
	}
	return nil
}
