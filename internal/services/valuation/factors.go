package valuation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FactorKind tags the value held by a Factor
type FactorKind int

const (
	FactorNumber FactorKind = iota
	FactorBool
	FactorString
)

// Factor is one named metric that drove a verdict
type Factor struct {
	Key  string
	Kind FactorKind
	num  float64
	flag bool
	text string
}

// Number creates a numeric factor
func Number(key string, v float64) Factor {
	return Factor{Key: key, Kind: FactorNumber, num: v}
}

// Bool creates a boolean factor
func Bool(key string, v bool) Factor {
	return Factor{Key: key, Kind: FactorBool, flag: v}
}

// Text creates a string factor
func Text(key string, v string) Factor {
	return Factor{Key: key, Kind: FactorString, text: v}
}

// Float returns the numeric value and whether the factor is numeric
func (f Factor) Float() (float64, bool) {
	return f.num, f.Kind == FactorNumber
}

// Flag returns the boolean value and whether the factor is boolean
func (f Factor) Flag() (bool, bool) {
	return f.flag, f.Kind == FactorBool
}

// Str returns the string value and whether the factor is a string
func (f Factor) Str() (string, bool) {
	return f.text, f.Kind == FactorString
}

// Value returns the underlying value as float64, bool or string
func (f Factor) Value() interface{} {
	switch f.Kind {
	case FactorBool:
		return f.flag
	case FactorString:
		return f.text
	default:
		return f.num
	}
}

// KeyFactors is an ordered set of factors, serialized as a JSON object
// that keeps insertion order
type KeyFactors []Factor

// Get looks up a factor by key
func (k KeyFactors) Get(key string) (Factor, bool) {
	for _, f := range k {
		if f.Key == key {
			return f, true
		}
	}
	return Factor{}, false
}

// Keys returns factor keys in order
func (k KeyFactors) Keys() []string {
	keys := make([]string, len(k))
	for i, f := range k {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON writes the factors as an object in insertion order
func (k KeyFactors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range k {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal factor %s: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object into factors, preserving document order
func (k *KeyFactors) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*k = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("key_factors: expected object")
	}

	var factors KeyFactors
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		switch v := valTok.(type) {
		case json.Number:
			f, err := v.Float64()
			if err != nil {
				return fmt.Errorf("key_factors.%s: %w", key, err)
			}
			factors = append(factors, Number(key, f))
		case bool:
			factors = append(factors, Bool(key, v))
		case string:
			factors = append(factors, Text(key, v))
		default:
			return fmt.Errorf("key_factors.%s: unsupported value", key)
		}
	}
	*k = factors
	return nil
}
