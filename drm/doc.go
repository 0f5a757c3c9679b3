// Package drm is a thin transport over an open DRM device descriptor.
//
// It encodes request codes the way the kernel's _IOC macros do, issues
// fixed-layout requests, and maps buffer objects into the process. Driver
// specific requests (for example the VC4 buffer calls) live with their
// backends and go through [File.Ioctl].
//
// Every call is a single blocking round trip. A File may be shared by
// independent callers; it holds no mutable state besides the descriptor.
package drm
