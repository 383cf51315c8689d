// Package render turns computed family layouts into exportable artifacts.
//
// The [nodelink] subpackage writes a layout as Graphviz DOT, one rank per
// generation, and renders it to SVG. [ToPDF] and [ToPNG] convert that SVG
// further using the external rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(layout, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)
package render
