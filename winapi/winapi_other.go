//go:build !windows

package winapi

import "image"

func clientRect(string) (image.Rectangle, error) {
	return image.Rectangle{}, ErrUnsupported
}

func cursorPos() (image.Point, error) {
	return image.Point{}, ErrUnsupported
}

func setCursorPos(image.Point) error {
	return ErrUnsupported
}
