package render

import "bytes"

// sanitizeSVG normalizes "prop: #rrggbb" spacing, which oksvg does not parse.
func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke-width: "), []byte("stroke-width:"))
	return fixed
}
