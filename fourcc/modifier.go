package fourcc

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier is a DRM format modifier: an opaque token naming the memory
// layout convention of a buffer. The top 8 bits carry the vendor.
type Modifier uint64

// Vendor identifiers stored in the top byte of a modifier.
const (
	VendorNone     = 0x00
	VendorBroadcom = 0x07
)

// Format modifiers.
const (
	// ModLinear is the plain row-major layout every device understands.
	ModLinear Modifier = 0

	// ModInvalid marks the absence of a modifier.
	ModInvalid Modifier = 0x00ffffffffffffff

	// ModBroadcomVC4TTiled is the VC4 "T" tiling: 4 KiB tiles made of
	// 1 KiB sub-tiles of 64-byte micro-tiles, with small buffers falling
	// back to linear-tile (LT) ordering inside the kernel.
	ModBroadcomVC4TTiled Modifier = VendorBroadcom<<56 | 1

	ModBroadcomSAND32  Modifier = VendorBroadcom<<56 | 2
	ModBroadcomSAND64  Modifier = VendorBroadcom<<56 | 3
	ModBroadcomSAND128 Modifier = VendorBroadcom<<56 | 4
	ModBroadcomSAND256 Modifier = VendorBroadcom<<56 | 5
	ModBroadcomUIF     Modifier = VendorBroadcom<<56 | 6
)

var modifierNames = map[Modifier]string{
	ModLinear:            "LINEAR",
	ModInvalid:           "INVALID",
	ModBroadcomVC4TTiled: "BROADCOM_VC4_T_TILED",
	ModBroadcomSAND32:    "BROADCOM_SAND32",
	ModBroadcomSAND64:    "BROADCOM_SAND64",
	ModBroadcomSAND128:   "BROADCOM_SAND128",
	ModBroadcomSAND256:   "BROADCOM_SAND256",
	ModBroadcomUIF:       "BROADCOM_UIF",
}

// Vendor returns the vendor byte of m.
func (m Modifier) Vendor() uint8 {
	return uint8(m >> 56)
}

// String returns the symbolic name of m, or its hex value when unknown.
func (m Modifier) String() string {
	if name, ok := modifierNames[m]; ok {
		return name
	}
	return fmt.Sprintf("0x%016x", uint64(m))
}

// ParseModifier accepts a symbolic name ("LINEAR", "BROADCOM_VC4_T_TILED")
// or a numeric value in any base strconv understands.
func ParseModifier(s string) (Modifier, error) {
	for m, name := range modifierNames {
		if strings.EqualFold(name, s) {
			return m, nil
		}
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return ModInvalid, fmt.Errorf("fourcc: invalid modifier %q", s)
	}
	return Modifier(v), nil
}
