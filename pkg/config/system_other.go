//go:build !linux

package config

// KernelRelease is only known on Linux.
func KernelRelease() string {
	return ""
}
