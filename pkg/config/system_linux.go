//go:build linux

package config

import "golang.org/x/sys/unix"

// KernelRelease returns the running kernel release, e.g. "6.1.0-13-amd64".
func KernelRelease() string {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uname.Release[:])
}
