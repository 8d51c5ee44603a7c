//go:build unix

package transport

import "syscall"

// applySocketOptions sets TCP_NODELAY, send/receive buffer sizes, and
// SO_LINGER on a freshly-created socket fd, per §4.4.
func applySocketOptions(fd uintptr, bufSize int) error {
	if err := syscall.SetsockoptInt(int(fd), syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1); err != nil {
		return err
	}
	if err := syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_SNDBUF, bufSize); err != nil {
		return err
	}
	if err := syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_RCVBUF, bufSize); err != nil {
		return err
	}
	linger := syscall.Linger{Onoff: 1, Linger: 2}
	return syscall.SetsockoptLinger(int(fd), syscall.SOL_SOCKET, syscall.SO_LINGER, &linger)
}
