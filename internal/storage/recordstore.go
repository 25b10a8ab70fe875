package storage

import "encoding/json"

// ReadRecords loads the JSON array persisted under key. An absent key, a
// parse failure, or any other corruption degrades to fallback rather than an
// error: a damaged blob must never crash the caller.
func ReadRecords[T any](kv KeyValue, key string, fallback []T) []T {
	raw, ok := kv.Get(key)
	if !ok || raw == "" {
		return fallback
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return fallback
	}
	return records
}

// WriteRecords serializes records and persists the full collection under key.
// Every write replaces the previous value wholesale.
func WriteRecords[T any](kv KeyValue, key string, records []T) error {
	encoded, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return kv.Set(key, string(encoded))
}
