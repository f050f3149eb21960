package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoerceWeight converts a loosely typed JSON weight into a float64.
// A missing (nil) weight counts as 0. Numeric strings are accepted.
// It returns false when the value cannot be read as a finite number.
func CoerceWeight(v any) (float64, bool) {
	var f float64
	switch w := v.(type) {
	case nil:
		return 0, true
	case float64:
		f = w
	case int:
		f = float64(w)
	case json.Number:
		parsed, err := w.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceID converts a JSON scalar into a node id. Numbers keep their textual form.
func CoerceID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, true
	case json.Number:
		return id.String(), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(id), true
	default:
		return "", false
	}
}

// DecodeLoose unmarshals JSON keeping numbers as json.Number.
func DecodeLoose(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
