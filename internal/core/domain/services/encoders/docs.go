// Package encoders turns generated layers into manufacturing files.
//
// Both encoders read the same canvas.Layer primitives and the same
// canvas.Layout, and both express the document in physical inches: the SVG
// root is sized in inches over a point based viewBox, the DXF entities are
// written in inches directly. Opening either file at 1:1 yields a true to
// scale panel, and the two files of one order are dimensionally identical.
package encoders
