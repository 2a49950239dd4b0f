package pente

// axes holds one direction per line orientation; the scan walks both ways.
var axes = [4]Coord{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal ↘
	{1, -1}, // diagonal ↙
}

// DetectWin reports whether side's move at s (after captures) wins.
func DetectWin(b *Board, s Coord, side Side) WinMethod {
	if b.Captured(side) >= CaptureWinThreshold {
		return WinCapture
	}
	for _, d := range axes {
		if RunLength(b, s, d, side) >= LineWinLength {
			return WinLine
		}
	}
	return WinNone
}

// RunLength counts consecutive stones of side through s along axis d.
// Returns 0 when s itself does not hold side's stone.
func RunLength(b *Board, s Coord, d Coord, side Side) int {
	own := side.Stone()
	if b.at(s) != own || !s.InBounds() {
		return 0
	}
	n := 1
	for k := 1; ; k++ {
		p := s.Add(d, k)
		if !p.InBounds() || b.at(p) != own {
			break
		}
		n++
	}
	for k := 1; ; k++ {
		p := s.Add(d, -k)
		if !p.InBounds() || b.at(p) != own {
			break
		}
		n++
	}
	return n
}
