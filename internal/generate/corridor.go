package generate

// corridor digs a tunnel between (x1,y1) and (x2,y2) in the template's style.
func (b *builder) corridor(x1, y1, x2, y2 int) {
	switch b.t.Corridors {
	case CorridorZShaped:
		carveZShaped(b.c, x1, y1, x2, y2)
	case CorridorStraight:
		carveH(b.c, x1, x2, y1)
		carveV(b.c, y1, y2, x2)
	default: // LShaped
		if b.rng.Intn(2) == 0 {
			carveH(b.c, x1, x2, y1)
			carveV(b.c, y1, y2, x2)
		} else {
			carveV(b.c, y1, y2, x1)
			carveH(b.c, x1, x2, y2)
		}
	}
}

func carveH(c *canvas, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		c.Carve(x, y)
	}
}

func carveV(c *canvas, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		c.Carve(x, y)
	}
}

func carveZShaped(c *canvas, x1, y1, x2, y2 int) {
	midY := (y1 + y2) / 2
	carveV(c, y1, midY, x1)
	carveH(c, x1, x2, midY)
	carveV(c, midY, y2, x2)
}
