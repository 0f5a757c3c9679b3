package drm

import "unsafe"

// DRM_IOWR(0x00, struct drm_version)
var IOCTLVersion = IOWR(0x00, unsafe.Sizeof(sysVersion{}))

// sysVersion mirrors struct drm_version. size_t and pointers are machine
// words, so uint and *byte keep the layout right on 32 and 64 bit.
type sysVersion struct {
	major   int32
	minor   int32
	patch   int32
	nameLen uint
	name    *byte
	dateLen uint
	date    *byte
	descLen uint
	desc    *byte
}

// Version describes the kernel driver behind a File.
type Version struct {
	Major int
	Minor int
	Patch int

	// Name is the driver name used for backend selection, e.g. "vc4".
	Name string
	Date string
	Desc string
}

// Version queries the driver. The first request reports string lengths,
// the second fills the buffers.
func (f *File) Version() (*Version, error) {
	req := &sysVersion{}
	if err := f.Ioctl("DRM_IOCTL_VERSION", IOCTLVersion, unsafe.Pointer(req)); err != nil {
		return nil, err
	}

	name := make([]byte, req.nameLen+1)
	date := make([]byte, req.dateLen+1)
	desc := make([]byte, req.descLen+1)
	req.name = &name[0]
	req.date = &date[0]
	req.desc = &desc[0]

	if err := f.Ioctl("DRM_IOCTL_VERSION", IOCTLVersion, unsafe.Pointer(req)); err != nil {
		return nil, err
	}

	return &Version{
		Major: int(req.major),
		Minor: int(req.minor),
		Patch: int(req.patch),
		Name:  string(name[:req.nameLen]),
		Date:  string(date[:req.dateLen]),
		Desc:  string(desc[:req.descLen]),
	}, nil
}
