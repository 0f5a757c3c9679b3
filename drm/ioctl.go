// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package drm

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Request code encoding, mirroring the kernel's _IOC macros.
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits
)

// IOCTLBase is the ioctl type byte of every DRM request ('d').
const IOCTLBase = 'd'

// CommandBase is the first request number reserved for driver-specific
// commands (DRM_COMMAND_BASE).
const CommandBase = 0x40

// Code is an encoded ioctl request number.
type Code uint32

func newCode(dir, size uintptr, nr uintptr) Code {
	return Code(dir<<iocDirShift | size<<iocSizeShift | IOCTLBase<<iocTypeShift | nr<<iocNrShift)
}

// IO returns the code of a request without payload (DRM_IO).
func IO(nr uintptr) Code { return newCode(iocNone, 0, nr) }

// IOW returns the code of a request the kernel only reads (DRM_IOW).
func IOW(nr, size uintptr) Code { return newCode(iocWrite, size, nr) }

// IOR returns the code of a request the kernel only writes (DRM_IOR).
func IOR(nr, size uintptr) Code { return newCode(iocRead, size, nr) }

// IOWR returns the code of a request the kernel reads and writes (DRM_IOWR).
func IOWR(nr, size uintptr) Code { return newCode(iocRead|iocWrite, size, nr) }

// Ioctl issues one request on the descriptor. name identifies the request
// in errors and logs, e.g. "DRM_IOCTL_VC4_CREATE_BO".
//
// Interrupted calls are restarted, as libdrm's drmIoctl does; any other
// failure is returned as a *RequestError wrapping the errno.
func (f *File) Ioctl(name string, code Code, arg unsafe.Pointer) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(code), uintptr(arg))
		runtime.KeepAlive(arg)
		runtime.KeepAlive(f)
		if errno == 0 {
			return nil
		}
		if errno == unix.EINTR || errno == unix.EAGAIN {
			continue
		}
		return &RequestError{Request: name, Err: errno}
	}
}
