package mgmt

import "github.com/rudislabs/mcumgr-client/pkg/nmp"

// ImageList returns the slot table from Image/State (spec.md §4.8; rust
// image.rs itself was not retrievable, so this adapter follows the
// Image/State shapes in original_source/src/nmp_hdr.rs and the
// check_answer/get_rc pattern shared by every other original_source
// adapter).
func (c *Client) ImageList() (nmp.ImageStateRsp, error) {
	var rsp nmp.ImageStateRsp
	if err := c.call(nmp.OpRead, nmp.GroupImage, nmp.IDImageState, nmp.EmptyReq{}, &rsp); err != nil {
		return nmp.ImageStateRsp{}, err
	}
	return rsp, nil
}

// ImageTest marks the image identified by hash as pending (or, with
// confirm set, confirmed) for the next boot.
func (c *Client) ImageTest(hash []byte, confirm *bool) (nmp.ImageStateRsp, error) {
	req := nmp.ImageStateReq{Hash: hash, Confirm: confirm}
	var rsp nmp.ImageStateRsp
	if err := c.call(nmp.OpWrite, nmp.GroupImage, nmp.IDImageState, req, &rsp); err != nil {
		return nmp.ImageStateRsp{}, err
	}
	return rsp, nil
}

// ImageUpload writes firmware data to the given image slot in
// Image/Upload chunks sized by Client.ChunkSize, shrinking the transport
// timeout after the first chunk the same way FileUpload does.
func (c *Client) ImageUpload(image uint8, data, sha []byte, subsequentTimeoutMs uint32) error {
	totalLen := uint32(len(data))
	chunk := uint32(c.chunkSize())
	first := true

	for offset := uint32(0); first || offset < totalLen; {
		first = false
		end := offset + chunk
		if end > totalLen {
			end = totalLen
		}
		req := nmp.ImageUploadReq{
			Data:  data[offset:end],
			Image: image,
			Off:   offset,
		}
		if offset == 0 {
			l := totalLen
			req.Len = &l
			req.Sha = sha
		}

		var rsp nmp.ImageUploadRsp
		if err := c.call(nmp.OpWrite, nmp.GroupImage, nmp.IDImageUpload, req, &rsp); err != nil {
			return err
		}
		offset = rsp.Off
		c.publishProgress("image-upload", offset, totalLen)

		if offset > 0 {
			if err := c.Transport.SetTimeout(subsequentTimeoutMs); err != nil {
				return err
			}
		}
	}
	return nil
}

// ImageErase erases the inactive image slot. slot is preserved as the
// request's wire field name, per DESIGN.md Open Question 1.
func (c *Client) ImageErase(slot *uint32) error {
	req := nmp.ImageEraseReq{Slot: slot}
	var rsp nmp.ImageEraseRsp
	return c.call(nmp.OpWrite, nmp.GroupImage, nmp.IDImageErase, req, &rsp)
}
