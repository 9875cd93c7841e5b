//go:build !linux

package discovery

import "os"

func adviseSequential(*os.File) error { return nil }
