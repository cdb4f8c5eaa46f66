// Package mgmt adapts the transport-polymorphic SMP dispatcher into one
// method per mcumgr command group: os/image/stat/config/fs/shell
// (spec.md §4.7-§4.13).
package mgmt

import "fmt"

// DeviceError reports a non-zero rc in an otherwise well-formed SMP
// response body (spec.md §7). The transport and framing layers never
// see this; it is purely a result of decoding a response payload.
type DeviceError struct {
	RC int32
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device error: rc=%d (%s)", e.RC, rcName(e.RC))
}

// rcName maps the well-known SMP return codes to their mcumgr names;
// any other code maps to "unrecognized".
func rcName(rc int32) string {
	switch rc {
	case 0:
		return "ok"
	case 1:
		return "unknown"
	case 2:
		return "no memory"
	case 3:
		return "invalid value"
	case 4:
		return "timeout"
	case 5:
		return "no entry"
	case 6:
		return "bad state"
	case 7:
		return "too large"
	case 8:
		return "not supported"
	default:
		return "unrecognized"
	}
}

// ConfigError reports a Client configuration that cannot produce a valid
// request, independent of anything transport-level (spec.md §7).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config error: " + e.Reason }
