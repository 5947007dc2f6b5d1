// SPDX-License-Identifier: AGPL-3.0-only
package utils

import (
	jsoniter "github.com/json-iterator/go"
)

// MarshalToString JSON-encodes v, returning "" on failure. Used where a
// best-effort textual payload is preferable to error plumbing.
func MarshalToString(v any) string {
	s, err := jsoniter.MarshalToString(v)
	if err != nil {
		return ""
	}
	return s
}

// JsonUnmarshal decodes raw JSON into out.
func JsonUnmarshal(raw []byte, out any) error {
	return jsoniter.Unmarshal(raw, out)
}
