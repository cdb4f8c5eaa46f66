package nmp

import "github.com/fxamacker/cbor/v2"

// ExtractRC decodes a response body only far enough to read its "rc" key,
// the way the source's get_rc helpers walk a dynamic CBOR map before the
// typed decode happens. Absence means success (rc=0), per spec.md §3.
func ExtractRC(body []byte) (int32, error) {
	if len(body) == 0 {
		return 0, nil
	}
	var envelope struct {
		RC *int32 `cbor:"rc,omitempty"`
	}
	if err := cbor.Unmarshal(body, &envelope); err != nil {
		return 0, err
	}
	if envelope.RC == nil {
		return 0, nil
	}
	return *envelope.RC, nil
}
