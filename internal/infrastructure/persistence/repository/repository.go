// Package repository provides typed repositories over the generic store
// collections, implementing the outbound persistence ports.
package repository

import (
	"encoding/json"

	apperrors "github.com/alacena/v2/pkg/errors"
)

// decodeOne unmarshals a single stored document. A nil document (store
// miss) decodes to a nil result.
func decodeOne[T any](raw json.RawMessage) (*T, error) {
	if raw == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, apperrors.NewStorageError("decode stored document", err)
	}
	return &v, nil
}

// decodeAll unmarshals a collection snapshot
func decodeAll[T any](raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, apperrors.NewStorageError("decode stored document", err)
		}
		out = append(out, v)
	}
	return out, nil
}
