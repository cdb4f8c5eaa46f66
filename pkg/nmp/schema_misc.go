package nmp

// Statistics management group — spec.md §6 Stat=2.

// StatListRsp is the Stat/List (id=1, op=Read) response body.
type StatListRsp struct {
	StatList []string `cbor:"stat_list"`
	RC       int32    `cbor:"rc"`
}

// StatReadReq is the Stat/Read (id=0, op=Read) request body.
type StatReadReq struct {
	Name string `cbor:"name"`
}

// StatReadRsp is the Stat/Read response body.
type StatReadRsp struct {
	Name   string           `cbor:"name"`
	Fields map[string]int64 `cbor:"fields"`
	RC     int32            `cbor:"rc"`
}

// Settings/Config management group — spec.md §6 Config=3, Val=0.

// SettingsReadReq is the Config/Val (op=Read) request body.
type SettingsReadReq struct {
	Name    string  `cbor:"name"`
	MaxSize *uint32 `cbor:"max_size,omitempty"`
}

// SettingsReadRsp is the Config/Val (op=Read) response body.
type SettingsReadRsp struct {
	Val []byte `cbor:"val"`
	RC  int32  `cbor:"rc"`
}

// SettingsWriteReq is the Config/Val (op=Write) request body for writes.
type SettingsWriteReq struct {
	Name string `cbor:"name"`
	Val  []byte `cbor:"val"`
}

// SettingsDeleteReq is the Config/Val (op=Write) request body for
// deletes: identical command id to write, distinguished only by the
// absent val field. Preserved as observed in the source rather than
// guessing at a distinct delete command id — see DESIGN.md Open
// Question 2.
type SettingsDeleteReq struct {
	Name string `cbor:"name"`
}

// EmptyReq marshals to the empty CBOR map {} (0xa0), used by every
// command whose request carries no fields (Settings Commit/Load/Save,
// TaskStat, McumgrParams, Stat/List, Image/State read) — a zero-length
// body is not valid CBOR, so these must send the map rather than omit
// the body (original_source/src/os.rs, src/stat.rs use
// serde_cbor::to_vec(&BTreeMap::new()) for exactly these).
type EmptyReq struct{}

// SettingsAckRsp is the generic ack response body carrying only rc.
type SettingsAckRsp struct {
	RC *int32 `cbor:"rc,omitempty"`
}

// Shell management group — spec.md §6 Shell=9.

// ShellExecReq is the Shell/Exec (id=0, op=Write) request body.
type ShellExecReq struct {
	Argv []string `cbor:"argv"`
}

// ShellExecRsp is the Shell/Exec response body.
type ShellExecRsp struct {
	O  string `cbor:"o"`
	RC int32  `cbor:"rc"`
}
