package pente

// directions are the eight unit vectors scanned for captures.
var directions = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// ResolveCaptures applies every custodial capture made by side's stone at s
// and returns the cleared coordinates. Each bracket adds 2 to the side's
// capture count; all eight directions are checked independently.
func ResolveCaptures(b *Board, s Coord, side Side) []Coord {
	own := side.Stone()
	opp := side.Opponent().Stone()
	var cleared []Coord
	for _, d := range directions {
		p1, p2, p3 := s.Add(d, 1), s.Add(d, 2), s.Add(d, 3)
		if !p3.InBounds() {
			continue
		}
		if b.at(p3) != own || b.at(p1) != opp || b.at(p2) != opp {
			continue
		}
		b.ClearAndReopen(p1.Row, p1.Col)
		b.ClearAndReopen(p2.Row, p2.Col)
		b.addCaptures(side, 2)
		cleared = append(cleared, p1, p2)
	}
	return cleared
}
