// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fourcc

import (
	"errors"
	"fmt"
	"strings"
)

// Format is a DRM fourcc pixel format code.
type Format uint32

// code packs four characters the way drm_fourcc.h does.
func code(a, b, c, d byte) Format {
	return Format(a) | Format(b)<<8 | Format(c)<<16 | Format(d)<<24
}

// Pixel formats.
const (
	// C8 is an 8-bit color index.
	C8 Format = 'C' | '8'<<8 | ' '<<16 | ' '<<24

	// R8 is a single 8-bit red channel.
	R8 Format = 'R' | '8'<<8 | ' '<<16 | ' '<<24

	// GR88 is 16-bit [15:0] G:R little endian.
	GR88 Format = 'G' | 'R'<<8 | '8'<<16 | '8'<<24

	// RGB565 is 16-bit [15:0] R:G:B 5:6:5 little endian.
	RGB565 Format = 'R' | 'G'<<8 | '1'<<16 | '6'<<24

	// BGR565 is 16-bit [15:0] B:G:R 5:6:5 little endian.
	BGR565 Format = 'B' | 'G'<<8 | '1'<<16 | '6'<<24

	// RGB888 is 24-bit [23:0] R:G:B little endian.
	RGB888 Format = 'R' | 'G'<<8 | '2'<<16 | '4'<<24

	// XRGB8888 is 32-bit [31:0] x:R:G:B little endian.
	XRGB8888 Format = 'X' | 'R'<<8 | '2'<<16 | '4'<<24

	// ARGB8888 is 32-bit [31:0] A:R:G:B little endian.
	ARGB8888 Format = 'A' | 'R'<<8 | '2'<<16 | '4'<<24

	// XBGR8888 is 32-bit [31:0] x:B:G:R little endian.
	XBGR8888 Format = 'X' | 'B'<<8 | '2'<<16 | '4'<<24

	// ABGR8888 is 32-bit [31:0] A:B:G:R little endian.
	ABGR8888 Format = 'A' | 'B'<<8 | '2'<<16 | '4'<<24

	// ABGR16161616F is 64-bit half float A:B:G:R little endian.
	ABGR16161616F Format = 'A' | 'B'<<8 | '4'<<16 | 'H'<<24

	// NV12 is 2-plane YCbCr 4:2:0 with interleaved CbCr.
	NV12 Format = 'N' | 'V'<<8 | '1'<<16 | '2'<<24

	// YVU420 is 3-plane YCrCb 4:2:0 (YV12).
	YVU420 Format = 'Y' | 'V'<<8 | '1'<<16 | '2'<<24
)

// ErrUnknownFormat is returned for fourcc codes missing from the table.
var ErrUnknownFormat = errors.New("fourcc: unknown format")

var formatNames = map[Format]string{
	C8:            "C8",
	R8:            "R8",
	GR88:          "GR88",
	RGB565:        "RGB565",
	BGR565:        "BGR565",
	RGB888:        "RGB888",
	XRGB8888:      "XRGB8888",
	ARGB8888:      "ARGB8888",
	XBGR8888:      "XBGR8888",
	ABGR8888:      "ABGR8888",
	ABGR16161616F: "ABGR16161616F",
	NV12:          "NV12",
	YVU420:        "YVU420",
}

// Name returns the symbolic name, e.g. "XRGB8888". Unknown codes return "".
func (f Format) Name() string {
	return formatNames[f]
}

// String returns the four characters of the code, e.g. "XR24".
func (f Format) String() string {
	b := []byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08x", uint32(f))
		}
	}
	return string(b)
}

// Formats returns every format in the capability table.
func Formats() []Format {
	return []Format{
		C8, R8, GR88, RGB565, BGR565, RGB888,
		XRGB8888, ARGB8888, XBGR8888, ABGR8888, ABGR16161616F,
		NV12, YVU420,
	}
}

// ParseFormat accepts either a symbolic name ("XRGB8888") or the
// four-character code ("XR24"). Matching is case-insensitive for names.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(name, s) {
			return f, nil
		}
	}
	if len(s) == 4 {
		f := code(s[0], s[1], s[2], s[3])
		if _, ok := layouts[f]; ok {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}
