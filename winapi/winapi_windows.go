//go:build windows

package winapi

import (
	"fmt"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW    = user32.NewProc("FindWindowW")
	procGetClientRect  = user32.NewProc("GetClientRect")
	procClientToScreen = user32.NewProc("ClientToScreen")
	procGetCursorPos   = user32.NewProc("GetCursorPos")
	procSetCursorPos   = user32.NewProc("SetCursorPos")
)

type rect struct {
	Left, Top, Right, Bottom int32
}

type point struct {
	X, Y int32
}

func findWindow(title string) (windows.HWND, error) {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, fmt.Errorf("encode window title: %w", err)
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(p)))
	if hwnd == 0 {
		return 0, fmt.Errorf("%q: %w", title, ErrWindowNotFound)
	}
	return windows.HWND(hwnd), nil
}

func clientRect(title string) (image.Rectangle, error) {
	hwnd, err := findWindow(title)
	if err != nil {
		return image.Rectangle{}, err
	}

	var r rect
	if ok, _, e := procGetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r))); ok == 0 {
		return image.Rectangle{}, fmt.Errorf("GetClientRect: %w", e)
	}
	origin := point{X: r.Left, Y: r.Top}
	if ok, _, e := procClientToScreen.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&origin))); ok == 0 {
		return image.Rectangle{}, fmt.Errorf("ClientToScreen: %w", e)
	}
	return image.Rect(
		int(origin.X), int(origin.Y),
		int(origin.X+r.Right-r.Left), int(origin.Y+r.Bottom-r.Top),
	), nil
}

func cursorPos() (image.Point, error) {
	var p point
	if ok, _, e := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p))); ok == 0 {
		return image.Point{}, fmt.Errorf("GetCursorPos: %w", e)
	}
	return image.Pt(int(p.X), int(p.Y)), nil
}

func setCursorPos(p image.Point) error {
	if ok, _, e := procSetCursorPos.Call(uintptr(int32(p.X)), uintptr(int32(p.Y))); ok == 0 {
		return fmt.Errorf("SetCursorPos(%d, %d): %w", p.X, p.Y, e)
	}
	return nil
}
