//go:build windows

package detector

import "syscall"

var (
	kernel32        = syscall.NewLazyDLL("kernel32.dll")
	procOpenProcess = kernel32.NewProc("OpenProcess")
	procCloseHandle = kernel32.NewProc("CloseHandle")
)

const processQueryInformation = 0x0400

// pidAlive checks process existence by opening a query-only handle, the
// Windows equivalent of kill(pid, 0). Failure to open the handle is
// treated as not alive.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	ret, _, _ := procOpenProcess.Call(
		uintptr(processQueryInformation),
		uintptr(0),
		uintptr(uint32(pid)),
	)
	if ret == 0 {
		return false
	}
	_, _, _ = procCloseHandle.Call(ret)
	return true
}
