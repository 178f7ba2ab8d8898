//go:build windows

package hdrcheck

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                          = windows.NewLazySystemDLL("user32.dll")
	procGetDisplayConfigBufferSizes = user32.NewProc("GetDisplayConfigBufferSizes")
	procQueryDisplayConfig          = user32.NewProc("QueryDisplayConfig")
	procDisplayConfigGetDeviceInfo  = user32.NewProc("DisplayConfigGetDeviceInfo")
)

const (
	qdcOnlyActivePaths       = 0x2
	deviceInfoAdvancedColor  = 9
	advancedColorEnabledMask = 0x2
	errorInsufficientBuffer  = 122
)

type luid struct {
	LowPart  uint32
	HighPart int32
}

type pathSourceInfo struct {
	AdapterID   luid
	ID          uint32
	ModeInfoIdx uint32
	StatusFlags uint32
}

type pathTargetInfo struct {
	AdapterID        luid
	ID               uint32
	ModeInfoIdx      uint32
	OutputTechnology uint32
	Rotation         uint32
	Scaling          uint32
	RefreshNum       uint32
	RefreshDen       uint32
	ScanLineOrdering uint32
	TargetAvailable  int32
	StatusFlags      uint32
}

type pathInfo struct {
	Source pathSourceInfo
	Target pathTargetInfo
	Flags  uint32
}

// modeInfo is only passed through; its union is never read.
type modeInfo [8]uint64

type deviceInfoHeader struct {
	Type      uint32
	Size      uint32
	AdapterID luid
	ID        uint32
}

type advancedColorInfo struct {
	Header              deviceInfoHeader
	Value               uint32
	ColorEncoding       uint32
	BitsPerColorChannel uint32
}

// IsHDREnabled reports whether any active display target has advanced colour
// turned on.
func IsHDREnabled() (bool, error) {
	paths, err := activePaths()
	if err != nil {
		return false, err
	}
	for _, p := range paths {
		info := advancedColorInfo{
			Header: deviceInfoHeader{
				Type:      deviceInfoAdvancedColor,
				Size:      uint32(unsafe.Sizeof(advancedColorInfo{})),
				AdapterID: p.Target.AdapterID,
				ID:        p.Target.ID,
			},
		}
		rc, _, _ := procDisplayConfigGetDeviceInfo.Call(uintptr(unsafe.Pointer(&info)))
		if rc != 0 {
			continue
		}
		if info.Value&advancedColorEnabledMask != 0 {
			return true, nil
		}
	}
	return false, nil
}

func activePaths() ([]pathInfo, error) {
	for {
		var nPaths, nModes uint32
		rc, _, _ := procGetDisplayConfigBufferSizes.Call(
			qdcOnlyActivePaths,
			uintptr(unsafe.Pointer(&nPaths)),
			uintptr(unsafe.Pointer(&nModes)),
		)
		if rc != 0 {
			return nil, fmt.Errorf("GetDisplayConfigBufferSizes: error %d", rc)
		}
		if nPaths == 0 {
			return nil, nil
		}

		paths := make([]pathInfo, nPaths)
		modes := make([]modeInfo, max(nModes, 1))
		rc, _, _ = procQueryDisplayConfig.Call(
			qdcOnlyActivePaths,
			uintptr(unsafe.Pointer(&nPaths)),
			uintptr(unsafe.Pointer(&paths[0])),
			uintptr(unsafe.Pointer(&nModes)),
			uintptr(unsafe.Pointer(&modes[0])),
			0,
		)
		switch rc {
		case 0:
			return paths[:nPaths], nil
		case errorInsufficientBuffer:
			// topology changed between the two calls
			continue
		default:
			return nil, fmt.Errorf("QueryDisplayConfig: error %d", rc)
		}
	}
}
