package nmp

// Image management group — spec.md §6 Image=1.

// SplitStatus is the split-image compatibility status reported on
// ImageState (spec.md §3).
type SplitStatus int32

const (
	SplitStatusNotApplicable SplitStatus = 0
	SplitStatusNotMatching   SplitStatus = 1
	SplitStatusMatching      SplitStatus = 2
)

// ImageStateEntry describes one slot entry in an ImageState response.
type ImageStateEntry struct {
	Image     uint32 `cbor:"image"`
	Slot      uint32 `cbor:"slot"`
	Version   string `cbor:"version"`
	Hash      []byte `cbor:"hash,omitempty"`
	Bootable  bool   `cbor:"bootable"`
	Pending   bool   `cbor:"pending"`
	Confirmed bool   `cbor:"confirmed"`
	Active    bool   `cbor:"active"`
	Permanent bool   `cbor:"permanent"`
}

// ImageStateReq is the Image/State (id=0, op=Write) request used to test
// or confirm an image by hash.
type ImageStateReq struct {
	Hash    []byte `cbor:"hash"`
	Confirm *bool  `cbor:"confirm,omitempty"`
}

// ImageStateRsp is the Image/State response body, returned by both the
// Read (list) and Write (test/confirm) forms.
type ImageStateRsp struct {
	Images      []ImageStateEntry `cbor:"images"`
	SplitStatus *SplitStatus      `cbor:"splitStatus,omitempty"`
	RC          *int32            `cbor:"rc,omitempty"`
}

// ImageUploadReq is the Image/Upload (id=1, op=Write) request body. Len,
// Sha and Upgrade are only present on the first chunk of a transfer.
type ImageUploadReq struct {
	Data    []byte  `cbor:"data"`
	Image   uint8   `cbor:"image"`
	Off     uint32  `cbor:"off"`
	Len     *uint32 `cbor:"len,omitempty"`
	Sha     []byte  `cbor:"sha,omitempty"`
	Upgrade *bool   `cbor:"upgrade,omitempty"`
}

// ImageUploadRsp is the Image/Upload response body.
type ImageUploadRsp struct {
	Off uint32 `cbor:"off"`
	RC  *int32 `cbor:"rc,omitempty"`
}

// ImageEraseReq is the Image/Erase (id=5, op=Write) request body.
//
// The source wires an optional slot field to group Image, id Erase=5;
// some mcumgr servers may expect an "image" field instead of "slot". This
// is preserved verbatim rather than guessed at — see DESIGN.md Open
// Question 1.
type ImageEraseReq struct {
	Slot *uint32 `cbor:"slot,omitempty"`
}

// ImageEraseRsp is the Image/Erase response body; only RC is meaningful.
type ImageEraseRsp struct {
	RC *int32 `cbor:"rc,omitempty"`
}
