package batch

// FloodFill replaces the 4-connected region of the seed pixel's color with
// rgba (0xRRGGBBAA). Seeds outside the batch, or already of the target
// color, change nothing.
func (b *PixelBatch) FloodFill(x, y int, rgba uint32) error {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return nil
	}
	if err := b.ensure(); err != nil {
		return err
	}
	target := b.pixels[x+b.w*y]
	fill := SwapRGBA(rgba)
	if target == fill {
		return nil
	}

	type span struct{ x, y int }
	stack := []span{{x, y}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		row := b.pixels[s.y*b.w : (s.y+1)*b.w]
		if row[s.x] != target {
			continue
		}
		x0 := s.x
		for x0 > 0 && row[x0-1] == target {
			x0--
		}
		x1 := s.x
		for x1 < b.w-1 && row[x1+1] == target {
			x1++
		}
		for i := x0; i <= x1; i++ {
			row[i] = fill
		}
		for _, ny := range [2]int{s.y - 1, s.y + 1} {
			if ny < 0 || ny >= b.h {
				continue
			}
			next := b.pixels[ny*b.w : (ny+1)*b.w]
			inRun := false
			for i := x0; i <= x1; i++ {
				if next[i] == target {
					if !inRun {
						stack = append(stack, span{i, ny})
						inRun = true
					}
				} else {
					inRun = false
				}
			}
		}
	}
	b.dirty = true
	return nil
}
