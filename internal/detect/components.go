package detect

import "image"

// component 是一块前景连通域。
type component struct {
	bounds image.Rectangle
	area   int
}

// connectedComponents 对前景掩码做 4 连通标记，返回每个连通域
// 的外接矩形与像素数。
func connectedComponents(bin *image.Gray) []component {
	bounds := bin.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	visited := make([]bool, w*h)

	idx := func(x, y int) int {
		return (y-bounds.Min.Y)*w + (x - bounds.Min.X)
	}

	var comps []component
	queue := make([]image.Point, 0, 1024)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if visited[idx(x, y)] || bin.GrayAt(x, y).Y == 0 {
				continue
			}

			comp := component{bounds: image.Rect(x, y, x+1, y+1)}
			queue = append(queue[:0], image.Pt(x, y))
			visited[idx(x, y)] = true

			for len(queue) > 0 {
				p := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				comp.area++
				comp.bounds = comp.bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

				for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < bounds.Min.X || nx >= bounds.Max.X || ny < bounds.Min.Y || ny >= bounds.Max.Y {
						continue
					}
					if visited[idx(nx, ny)] || bin.GrayAt(nx, ny).Y == 0 {
						continue
					}
					visited[idx(nx, ny)] = true
					queue = append(queue, image.Pt(nx, ny))
				}
			}

			comps = append(comps, comp)
		}
	}
	return comps
}
