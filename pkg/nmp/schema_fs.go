package nmp

// File system management group — spec.md §6 Fs=8.

// FsDownloadReq is the Fs/File (id=0, op=Read) request body.
type FsDownloadReq struct {
	Name string `cbor:"name"`
	Off  uint32 `cbor:"off"`
}

// FsDownloadRsp is the Fs/File (op=Read) response body. Len is only
// present on the first chunk; termination happens when the local cursor
// reaches Len or Data comes back empty, whichever is first (spec.md §4.8).
type FsDownloadRsp struct {
	Off  uint32  `cbor:"off"`
	Data []byte  `cbor:"data"`
	Len  *uint32 `cbor:"len,omitempty"`
	RC   int32   `cbor:"rc"`
}

// FsUploadReq is the Fs/File (id=0, op=Write) request body. Len is only
// present on the first chunk and equals the total file size.
type FsUploadReq struct {
	Name string  `cbor:"name"`
	Off  uint32  `cbor:"off"`
	Data []byte  `cbor:"data"`
	Len  *uint32 `cbor:"len,omitempty"`
}

// FsUploadRsp is the Fs/File (op=Write) response body. Off is the
// device's new high-water mark and becomes the next request's offset.
type FsUploadRsp struct {
	Off uint32 `cbor:"off"`
	RC  int32  `cbor:"rc"`
}

// FsStatReq is the Fs/FileStat (id=1, op=Read) request body.
type FsStatReq struct {
	Name string `cbor:"name"`
}

// FsStatRsp is the Fs/FileStat response body.
type FsStatRsp struct {
	Len uint32 `cbor:"len"`
	RC  int32  `cbor:"rc"`
}

// FsHashReq is the Fs/FileHash (id=2, op=Read) request body.
type FsHashReq struct {
	Name     string  `cbor:"name"`
	HashType *string `cbor:"type,omitempty"`
	Off      *uint32 `cbor:"off,omitempty"`
	Len      *uint32 `cbor:"len,omitempty"`
}

// FsHashRsp is the Fs/FileHash response body.
type FsHashRsp struct {
	HashType string `cbor:"type"`
	Off      uint32 `cbor:"off"`
	Len      uint32 `cbor:"len"`
	Output   []byte `cbor:"output"`
	RC       int32  `cbor:"rc"`
}
