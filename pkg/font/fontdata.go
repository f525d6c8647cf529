package font

// GlyphData is the viewer description of one character: its advance width
// and outline polylines, in units of the text height.
type GlyphData struct {
	W float64        `json:"w"`
	L [][][2]float64 `json:"l"`
}

// FontData returns every character rendered so far, keyed by the
// character itself. The map is a fresh copy.
func (s *Source) FontData() map[string]GlyphData {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make(map[string]GlyphData, len(s.used))
	for r, g := range s.used {
		gd := GlyphData{W: g.advance, L: make([][][2]float64, 0, len(g.contours))}
		for _, c := range g.contours {
			line := make([][2]float64, 0, len(c)+1)
			for _, p := range c {
				line = append(line, [2]float64{p.X, p.Y})
			}
			// closed outline
			if len(c) > 0 {
				line = append(line, [2]float64{c[0].X, c[0].Y})
			}
			gd.L = append(gd.L, line)
		}
		data[string(r)] = gd
	}
	return data
}
