package redis

import "fmt"

// Index maps configuration keys to their current string value.
// It is built fresh for each audit and never shared between audits.
type Index map[string]string

// Lookup returns the value for key and whether the key was present.
// An empty value with ok == true means "set to the empty string".
func (ix Index) Lookup(key string) (string, bool) {
	v, ok := ix[key]
	return v, ok
}

// DecodeWarning describes a reply pair dropped while building an Index.
type DecodeWarning struct {
	// Position is the index of the pair's key element in the snapshot.
	Position int
	Reason   string
}

func (w DecodeWarning) String() string {
	return fmt.Sprintf("pair at %d: %s", w.Position, w.Reason)
}

// BuildIndex converts a flat key/value snapshot into an Index in one pass.
// Pairs whose key or value is not a string are skipped and reported as
// warnings. If the same key appears twice the last value wins.
func BuildIndex(s Snapshot) (Index, []DecodeWarning) {
	ix := make(Index, s.Len())
	var warnings []DecodeWarning
	for i := 0; i+1 < len(s); i += 2 {
		key, ok := decodeString(s[i])
		if !ok {
			warnings = append(warnings, DecodeWarning{Position: i, Reason: fmt.Sprintf("key has type %T", s[i])})
			continue
		}
		val, ok := decodeString(s[i+1])
		if !ok {
			warnings = append(warnings, DecodeWarning{Position: i, Reason: fmt.Sprintf("value for %q has type %T", key, s[i+1])})
			continue
		}
		ix[key] = val
	}
	return ix, warnings
}

// decodeString accepts the string shapes a RESP client may hand back.
func decodeString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return "", false
	}
}
