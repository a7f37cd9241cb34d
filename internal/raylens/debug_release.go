//go:build !debug
// +build !debug

package raylens

func DebugLog(format string, args ...interface{})     {}
func DebugLogOnce(format string, args ...interface{}) {}
