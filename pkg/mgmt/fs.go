package mgmt

import "github.com/rudislabs/mcumgr-client/pkg/nmp"

// FileDownload reads an entire remote file in Fs/File chunks, shrinking
// the transport's first-byte timeout after the first chunk since a live
// link no longer needs the cold-device wait (original_source/src/fs.rs
// download).
func (c *Client) FileDownload(remotePath string, subsequentTimeoutMs uint32) ([]byte, error) {
	var data []byte
	var offset uint32
	var totalLen *uint32

	for {
		req := nmp.FsDownloadReq{Name: remotePath, Off: offset}
		var rsp nmp.FsDownloadRsp
		if err := c.call(nmp.OpRead, nmp.GroupFs, nmp.IDFsFile, req, &rsp); err != nil {
			return nil, err
		}

		if offset == 0 && rsp.Len != nil {
			totalLen = rsp.Len
		}

		data = append(data, rsp.Data...)
		offset = rsp.Off + uint32(len(rsp.Data))
		if totalLen != nil {
			c.publishProgress("file-download", offset, *totalLen)
		}

		if totalLen != nil && offset >= *totalLen {
			break
		}
		if len(rsp.Data) == 0 {
			break
		}
		if err := c.Transport.SetTimeout(subsequentTimeoutMs); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// FileUpload writes data to a remote path in Fs/File chunks sized by
// Client.ChunkSize, shrinking the transport timeout after the first
// chunk the same way FileDownload does (original_source/src/fs.rs
// upload).
func (c *Client) FileUpload(remotePath string, data []byte, subsequentTimeoutMs uint32) error {
	totalLen := uint32(len(data))
	chunk := uint32(c.chunkSize())
	first := true

	for offset := uint32(0); first || offset < totalLen; {
		first = false
		end := offset + chunk
		if end > totalLen {
			end = totalLen
		}
		req := nmp.FsUploadReq{
			Name: remotePath,
			Off:  offset,
			Data: data[offset:end],
		}
		if offset == 0 {
			l := totalLen
			req.Len = &l
		}

		var rsp nmp.FsUploadRsp
		if err := c.call(nmp.OpWrite, nmp.GroupFs, nmp.IDFsFile, req, &rsp); err != nil {
			return err
		}
		offset = rsp.Off
		c.publishProgress("file-upload", offset, totalLen)

		if offset > 0 {
			if err := c.Transport.SetTimeout(subsequentTimeoutMs); err != nil {
				return err
			}
		}
	}
	return nil
}

// FileStat returns the size of a remote file (original_source/src/fs.rs
// stat).
func (c *Client) FileStat(remotePath string) (uint32, error) {
	req := nmp.FsStatReq{Name: remotePath}
	var rsp nmp.FsStatRsp
	if err := c.call(nmp.OpRead, nmp.GroupFs, nmp.IDFsFileStat, req, &rsp); err != nil {
		return 0, err
	}
	return rsp.Len, nil
}

// FileHash computes a checksum/hash of a remote file, optionally scoped
// to hashType/off/len (original_source/src/fs.rs hash).
func (c *Client) FileHash(remotePath string, hashType *string, off, length *uint32) (nmp.FsHashRsp, error) {
	req := nmp.FsHashReq{Name: remotePath, HashType: hashType, Off: off, Len: length}
	var rsp nmp.FsHashRsp
	if err := c.call(nmp.OpRead, nmp.GroupFs, nmp.IDFsFileHash, req, &rsp); err != nil {
		return nmp.FsHashRsp{}, err
	}
	return rsp, nil
}
