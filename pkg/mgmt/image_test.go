package mgmt

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/rudislabs/mcumgr-client/pkg/nmp"
)

func TestClientImageUploadRoundTrip(t *testing.T) {
	var stored []byte

	c := newTestClient(t, func(header nmp.Header, body []byte) (nmp.Header, []byte) {
		rspOp, _ := header.Op.ResponseOp()
		rsp := nmp.NewRequest(rspOp, header.Group, header.ID)
		rsp.Seq = header.Seq

		var req nmp.ImageUploadReq
		_ = cbor.Unmarshal(body, &req)
		if int(req.Off) == len(stored) {
			stored = append(stored, req.Data...)
		}
		rspBody, _ := cbor.Marshal(nmp.ImageUploadRsp{Off: uint32(len(stored))})
		return rsp, rspBody
	})
	c.ChunkSize = 32

	firmware := make([]byte, 200)
	for i := range firmware {
		firmware[i] = byte(i * 3)
	}

	require.NoError(t, c.ImageUpload(1, firmware, []byte("deadbeef"), 150))
	require.Equal(t, firmware, stored)
}

func TestClientImageListDecodesSlots(t *testing.T) {
	c := newTestClient(t, func(header nmp.Header, _ []byte) (nmp.Header, []byte) {
		rspOp, _ := header.Op.ResponseOp()
		rsp := nmp.NewRequest(rspOp, header.Group, header.ID)
		rsp.Seq = header.Seq
		rspBody, _ := cbor.Marshal(nmp.ImageStateRsp{
			Images: []nmp.ImageStateEntry{
				{Slot: 0, Version: "1.0.0", Active: true, Confirmed: true},
				{Slot: 1, Version: "1.1.0", Pending: true},
			},
		})
		return rsp, rspBody
	})

	rsp, err := c.ImageList()
	require.NoError(t, err)
	require.Len(t, rsp.Images, 2)
	require.True(t, rsp.Images[0].Active)
	require.True(t, rsp.Images[1].Pending)
}
