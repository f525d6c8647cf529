// Package font turns board text into geometry using the Go font family.
//
// Outline (TrueType) texts become filled contours, stroke texts become the
// traced glyph outlines as line segments. Every rendered glyph is recorded
// in a font description that a viewer can use to draw the same characters
// again, see [Source.FontData].
//
// Font shaping is not performed: runes are laid out one after the other by
// their advance widths.
package font
