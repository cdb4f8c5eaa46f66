package mgmt

import "github.com/rudislabs/mcumgr-client/pkg/nmp"

// ShellExec runs an argv-style command on the device's shell subsystem
// and returns its captured stdout and the command's exit status. rc here
// is the executed command's exit code, not a protocol error, so a
// nonzero rc is returned alongside O rather than as a DeviceError
// (original_source/src/shell.rs shell_exec).
func (c *Client) ShellExec(argv []string) (nmp.ShellExecRsp, error) {
	if len(argv) == 0 {
		return nmp.ShellExecRsp{}, &ConfigError{Reason: "shell exec: argv must not be empty"}
	}
	req := nmp.ShellExecReq{Argv: argv}
	var rsp nmp.ShellExecRsp
	if err := c.callNoRC(nmp.OpWrite, nmp.GroupShell, nmp.IDShellExec, req, &rsp); err != nil {
		return nmp.ShellExecRsp{}, err
	}
	return rsp, nil
}
