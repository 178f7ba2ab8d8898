//go:build !windows

package hdrcheck

// IsHDREnabled always reports false off Windows; the game only runs there.
func IsHDREnabled() (bool, error) {
	return false, nil
}
