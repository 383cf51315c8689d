// Package nodelink draws a family layout as a Graphviz node-link diagram.
//
// The 3D positions of a layout are not used here. Graphviz ranks the
// people by generation instead, oldest at the top:
//
//	Layout → ToDOT() → DOT → RenderSVG() → SVG
//
// Parent-child edges point from parent to child and drive the ranking.
// Spouse edges are drawn bold and sibling edges dotted; neither constrains
// the ranks. Node outlines thicken with biography weight, and people not
// connected to the focal person are drawn dashed and grey.
package nodelink
