package sqlite

import (
	"encoding/json"
	"strings"

	"github.com/hrygo/toeicplanner/store"
)

// placeholder returns a placeholder for SQLite (uses ?)
func placeholder(n int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// boolToInt maps a bool onto the 0/1 INTEGER column representation.
func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func marshalCompletionData(data *store.CompletionData) (*string, error) {
	if data == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	s := string(bytes)
	return &s, nil
}

func unmarshalCompletionData(raw string) (*store.CompletionData, error) {
	if raw == "" {
		return nil, nil
	}
	data := &store.CompletionData{}
	if err := json.Unmarshal([]byte(raw), data); err != nil {
		return nil, err
	}
	return data, nil
}
