package term

// grid is a cursor over rows of a fixed width. Text flows cell by cell: a
// rune that would cross the right edge starts the next row, leaving the
// cells it could not use as padding at the end of the row. A zero width
// disables wrapping.
type grid struct {
	width int
	x, y  int
	// pad holds the padding cells left at the end of each wrapped row.
	pad map[int]int
}

func newGrid(width int) grid {
	return grid{width: max(0, width), pad: map[int]int{}}
}

// place returns the cell a rune of width w is drawn at and moves past it.
// A cursor that reaches the right edge wraps to the start of the next row.
func (g *grid) place(w int) (x, y int) {
	if g.width > 0 && g.x > 0 && g.x+w > g.width {
		g.pad[g.y] = g.width - g.x
		g.x = 0
		g.y++
	}
	x, y = g.x, g.y
	g.x += w
	if g.width > 0 && g.x >= g.width {
		g.x = 0
		g.y++
	}
	return x, y
}

// newline ends the current text and returns how many rows it covered,
// counting from startRow. Empty text still covers one row.
func (g *grid) newline(startRow int) int {
	if g.x != 0 || g.y == startRow {
		g.x = 0
		g.y++
	}
	return g.y - startRow
}

// back moves the cursor n cells towards the start of the text, crossing to
// the end of the previous row and skipping its padding. It stops at the
// top-left cell.
func (g *grid) back(n int) {
	for n > 0 {
		if g.x == 0 {
			if g.width == 0 || g.y == 0 {
				return
			}
			g.y--
			g.x = g.width - g.pad[g.y]
			continue
		}
		step := min(n, g.x)
		g.x -= step
		n -= step
	}
}

// up moves the cursor n rows up, stopping at the top row.
func (g *grid) up(n int) {
	g.y = max(0, g.y-n)
}
