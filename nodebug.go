//go:build !debug

package spatialq

func assert(bool, ...interface{}) {}
