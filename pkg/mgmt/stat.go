package mgmt

import "github.com/rudislabs/mcumgr-client/pkg/nmp"

// StatList lists the statistics group names the device exposes
// (original_source/src/stat.rs stat_list).
func (c *Client) StatList() ([]string, error) {
	var rsp nmp.StatListRsp
	if err := c.call(nmp.OpRead, nmp.GroupStat, nmp.IDStatList, nmp.EmptyReq{}, &rsp); err != nil {
		return nil, err
	}
	return rsp.StatList, nil
}

// StatRead reads every field in one statistics group
// (original_source/src/stat.rs stat_read).
func (c *Client) StatRead(name string) (map[string]int64, error) {
	req := nmp.StatReadReq{Name: name}
	var rsp nmp.StatReadRsp
	if err := c.call(nmp.OpRead, nmp.GroupStat, nmp.IDStatRead, req, &rsp); err != nil {
		return nil, err
	}
	return rsp.Fields, nil
}
