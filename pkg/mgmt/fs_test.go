package mgmt

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/rudislabs/mcumgr-client/pkg/nmp"
)

func TestClientFileUploadDownloadRoundTrip(t *testing.T) {
	var stored []byte

	c := newTestClient(t, func(header nmp.Header, body []byte) (nmp.Header, []byte) {
		rspOp, _ := header.Op.ResponseOp()
		rsp := nmp.NewRequest(rspOp, header.Group, header.ID)
		rsp.Seq = header.Seq

		if header.Op == nmp.OpWrite {
			var req nmp.FsUploadReq
			_ = cbor.Unmarshal(body, &req)
			if int(req.Off) == len(stored) {
				stored = append(stored, req.Data...)
			}
			rspBody, _ := cbor.Marshal(nmp.FsUploadRsp{Off: uint32(len(stored))})
			return rsp, rspBody
		}

		var req nmp.FsDownloadReq
		_ = cbor.Unmarshal(body, &req)
		const chunk = 16
		end := int(req.Off) + chunk
		if end > len(stored) {
			end = len(stored)
		}
		data := stored[req.Off:end]
		fsRsp := nmp.FsDownloadRsp{Off: req.Off, Data: data}
		if req.Off == 0 {
			l := uint32(len(stored))
			fsRsp.Len = &l
		}
		rspBody, _ := cbor.Marshal(fsRsp)
		return rsp, rspBody
	})
	c.ChunkSize = 20

	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = byte(i)
	}

	require.NoError(t, c.FileUpload("/lfs/app.bin", payload, 200))
	require.Equal(t, payload, stored)

	got, err := c.FileDownload("/lfs/app.bin", 200)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestClientFileUploadEmptyFile(t *testing.T) {
	c := newTestClient(t, func(header nmp.Header, body []byte) (nmp.Header, []byte) {
		rspOp, _ := header.Op.ResponseOp()
		rsp := nmp.NewRequest(rspOp, header.Group, header.ID)
		rsp.Seq = header.Seq
		rspBody, _ := cbor.Marshal(nmp.FsUploadRsp{Off: 0})
		return rsp, rspBody
	})

	require.NoError(t, c.FileUpload("/lfs/empty.bin", nil, 200))
}
