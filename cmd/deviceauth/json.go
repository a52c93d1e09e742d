package main

import (
	"bytes"
	"encoding/json"
)

// jsonUnmarshal decodes with UseNumber so integers survive the round trip
// through the envelope unchanged.
func jsonUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
