package domain

import "encoding/json"

// The UI layer attaches fields this core does not model. Records therefore
// carry an Extra map holding every key the canonical encoding would drop, so
// a read-modify-write cycle returns them verbatim.

// extraFields returns the keys present in data but absent from the canonical
// encoding of v. Returns nil when there are none.
func extraFields(data []byte, v any) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	canonical, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(canonical, &known); err != nil {
		return nil, err
	}

	for k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// mergeExtra encodes v with the extra fields re-attached. Canonical fields
// win on key conflict.
func mergeExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return json.Marshal(v)
	}

	canonical, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]json.RawMessage, len(extra))
	for k, raw := range extra {
		merged[k] = raw
	}
	// Unmarshalling into a non-empty map overwrites colliding keys with the
	// canonical values.
	if err := json.Unmarshal(canonical, &merged); err != nil {
		return nil, err
	}

	return json.Marshal(merged)
}
