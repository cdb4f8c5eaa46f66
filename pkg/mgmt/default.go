package mgmt

import "github.com/rudislabs/mcumgr-client/pkg/nmp"

// Echo sends a Default/Echo request and returns the echoed string
// (original_source/src/os.rs echo).
func (c *Client) Echo(message string) (string, error) {
	req := nmp.EchoReq{D: message}
	var rsp nmp.EchoRsp
	if err := c.call(nmp.OpWrite, nmp.GroupDefault, nmp.IDDefEcho, req, &rsp); err != nil {
		return "", err
	}
	return rsp.R, nil
}

// Reset sends a Default/Reset request. force, when non-nil, asks the
// device to reset even mid-transfer.
func (c *Client) Reset(force *uint32) error {
	req := nmp.ResetReq{Force: force}
	var rsp nmp.ResetRsp
	return c.call(nmp.OpWrite, nmp.GroupDefault, nmp.IDDefReset, req, &rsp)
}

// TaskStat returns the RTOS task/thread table (original_source/src/os.rs
// taskstat).
func (c *Client) TaskStat() (nmp.TaskStatRsp, error) {
	var rsp nmp.TaskStatRsp
	if err := c.call(nmp.OpRead, nmp.GroupDefault, nmp.IDDefTaskStat, nmp.EmptyReq{}, &rsp); err != nil {
		return nmp.TaskStatRsp{}, err
	}
	return rsp, nil
}

// McumgrParams returns the device's SMP buffer size and count
// (original_source/src/os.rs mcumgr_params).
func (c *Client) McumgrParams() (nmp.McumgrParamsRsp, error) {
	var rsp nmp.McumgrParamsRsp
	if err := c.call(nmp.OpRead, nmp.GroupDefault, nmp.IDDefMcumgrParams, nmp.EmptyReq{}, &rsp); err != nil {
		return nmp.McumgrParamsRsp{}, err
	}
	return rsp, nil
}

// OSInfo returns OS/application information. format selects which fields
// the device reports; nil requests the device's default selection
// (original_source/src/os.rs os_info).
func (c *Client) OSInfo(format *string) (string, error) {
	req := nmp.OSInfoReq{Format: format}
	var rsp nmp.OSInfoRsp
	if err := c.call(nmp.OpRead, nmp.GroupDefault, nmp.IDDefInfo, req, &rsp); err != nil {
		return "", err
	}
	return rsp.Output, nil
}

// BootloaderInfo returns bootloader name and, when query requests it
// ("mode"), the mcuboot swap mode (original_source/src/os.rs
// bootloader_info).
func (c *Client) BootloaderInfo(query *string) (nmp.BootloaderInfoRsp, error) {
	req := nmp.BootloaderInfoReq{Query: query}
	var rsp nmp.BootloaderInfoRsp
	if err := c.call(nmp.OpRead, nmp.GroupDefault, nmp.IDDefBootloaderInfo, req, &rsp); err != nil {
		return nmp.BootloaderInfoRsp{}, err
	}
	return rsp, nil
}
