package imgutil

// HSV is a color on the 8-bit OpenCV scale: H in [0, 180), S and V in [0, 255].
type HSV struct {
	H, S, V uint8
}

// ToHSV converts an 8-bit RGB triple to OpenCV-scaled HSV.
func ToHSV(r, g, b uint8) HSV {
	fr, fg, fb := float64(r), float64(g), float64(b)

	maxC := fr
	if fg > maxC {
		maxC = fg
	}
	if fb > maxC {
		maxC = fb
	}
	minC := fr
	if fg < minC {
		minC = fg
	}
	if fb < minC {
		minC = fb
	}
	delta := maxC - minC

	var s float64
	if maxC != 0 {
		s = delta / maxC * 255
	}

	var h float64
	if delta != 0 {
		switch maxC {
		case fr:
			h = 60 * (fg - fb) / delta
		case fg:
			h = 120 + 60*(fb-fr)/delta
		default:
			h = 240 + 60*(fr-fg)/delta
		}
		if h < 0 {
			h += 360
		}
	}

	hh := int(h/2 + 0.5)
	if hh >= 180 {
		hh -= 180
	}
	return HSV{H: uint8(hh), S: uint8(s + 0.5), V: uint8(maxC)}
}

// HSVRange is an inclusive band on every HSV channel.
type HSVRange struct {
	Lower, Upper HSV
}

// Contains reports whether c lies inside the band on all three channels.
func (rg HSVRange) Contains(c HSV) bool {
	return c.H >= rg.Lower.H && c.H <= rg.Upper.H &&
		c.S >= rg.Lower.S && c.S <= rg.Upper.S &&
		c.V >= rg.Lower.V && c.V <= rg.Upper.V
}
