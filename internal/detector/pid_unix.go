//go:build !windows

package detector

import "syscall"

// pidAlive returns true only when signaling pid with the null signal
// succeeds. Any probe failure, ESRCH and EPERM included, collapses to
// false: the check is advisory and a process we cannot signal is one
// we cannot confirm alive.
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
