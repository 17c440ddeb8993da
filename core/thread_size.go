//go:build amd64 || arm64

package core

import "unsafe"

// The external contract fixes the thread descriptor at 64 bytes so callers
// can allocate thread storage inline. Both directions assert so a field
// change that grows or shrinks the descriptor fails to compile.
var (
	_ [threadDescSize - unsafe.Sizeof(Thread{})]byte
	_ [unsafe.Sizeof(Thread{}) - threadDescSize]byte
)
