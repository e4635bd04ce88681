//go:build !(linux || darwin)

package cotask

func isErrnoWouldBlock(error) bool {
	return false
}
