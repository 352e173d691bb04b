package shading

import (
	_ "embed"
)

// HalftoneWGSL holds the vertex (vs_main) and fragment (fs_main) stages.
//
//go:embed shaders/halftone.wgsl
var HalftoneWGSL string
