package mgmt

import "github.com/rudislabs/mcumgr-client/pkg/nmp"

// All settings operations share Group/Config and ID/Val (id=0); op and
// body shape are what distinguish read/write/delete/commit/load/save
// (original_source/src/settings.rs, and DESIGN.md Open Question 2 for
// why delete is not a distinct command id).

// SettingsRead reads a setting value, truncated to maxSize bytes if the
// device enforces one.
func (c *Client) SettingsRead(name string, maxSize *uint32) ([]byte, error) {
	req := nmp.SettingsReadReq{Name: name, MaxSize: maxSize}
	var rsp nmp.SettingsReadRsp
	if err := c.call(nmp.OpRead, nmp.GroupConfig, nmp.IDConfigVal, req, &rsp); err != nil {
		return nil, err
	}
	return rsp.Val, nil
}

// SettingsWrite writes a setting value.
func (c *Client) SettingsWrite(name string, value []byte) error {
	req := nmp.SettingsWriteReq{Name: name, Val: value}
	var rsp nmp.SettingsAckRsp
	return c.call(nmp.OpWrite, nmp.GroupConfig, nmp.IDConfigVal, req, &rsp)
}

// SettingsDelete removes a setting, using the same Write op as
// SettingsWrite but omitting val.
func (c *Client) SettingsDelete(name string) error {
	req := nmp.SettingsDeleteReq{Name: name}
	var rsp nmp.SettingsAckRsp
	return c.call(nmp.OpWrite, nmp.GroupConfig, nmp.IDConfigVal, req, &rsp)
}

// SettingsCommit saves pending setting changes to persistent storage.
func (c *Client) SettingsCommit() error {
	var rsp nmp.SettingsAckRsp
	return c.call(nmp.OpWrite, nmp.GroupConfig, nmp.IDConfigVal, nmp.EmptyReq{}, &rsp)
}

// SettingsLoad reloads settings from persistent storage.
func (c *Client) SettingsLoad() error {
	var rsp nmp.SettingsAckRsp
	return c.call(nmp.OpRead, nmp.GroupConfig, nmp.IDConfigVal, nmp.EmptyReq{}, &rsp)
}

// SettingsSave forces an immediate save to persistent storage.
func (c *Client) SettingsSave() error {
	var rsp nmp.SettingsAckRsp
	return c.call(nmp.OpWrite, nmp.GroupConfig, nmp.IDConfigVal, nmp.EmptyReq{}, &rsp)
}
