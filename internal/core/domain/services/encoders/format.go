package encoders

import "strconv"

// coord formats a canvas coordinate for SVG.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// inches formats a DXF value in inches.
func inches(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

// plain formats a value with the shortest exact representation.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
