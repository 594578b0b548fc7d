package sketch

type Rect2f = Rect2[float32]
type Rect2u = Rect2[uint32]

// Rect2 is an axis aligned rectangle spanned by Min and Max.
type Rect2[T numeric] struct {
	Min Vec2[T]
	Max Vec2[T]
}

func RectFromSize[T numeric](pos Vec2[T], size Vec2[T]) Rect2[T] {
	return RectFromPoints[T](pos, pos.Add(size))
}

func RectFromPoints[T numeric](a, b Vec2[T]) Rect2[T] {
	return Rect2[T]{
		Min: Vec2[T]{
			min(a[0], b[0]),
			min(a[1], b[1]),
		},
		Max: Vec2[T]{
			max(a[0], b[0]),
			max(a[1], b[1]),
		},
	}
}

func (r Rect2[T]) Intersect(other Rect2[T]) Rect2[T] {
	minX := max(r.Min[0], other.Min[0])
	minY := max(r.Min[1], other.Min[1])

	maxX := min(r.Max[0], other.Max[0])
	maxY := min(r.Max[1], other.Max[1])

	if maxX < minX {
		maxX = minX
	}

	if maxY < minY {
		maxY = minY
	}

	return Rect2[T]{
		Min: Vec2[T]{minX, minY},
		Max: Vec2[T]{maxX, maxY},
	}
}

func (r Rect2[T]) Contains(point Vec2[T]) bool {
	return point[0] >= r.Min[0] && point[0] < r.Max[0] &&
		point[1] >= r.Min[1] && point[1] < r.Max[1]
}

func (r Rect2[T]) Size() Vec2[T] {
	return r.Max.Sub(r.Min)
}

func (r Rect2[T]) Width() T {
	return r.Max[0] - r.Min[0]
}

func (r Rect2[T]) Height() T {
	return r.Max[1] - r.Min[1]
}

func (r Rect2[T]) IsEmpty() bool {
	return r.Max[0] <= r.Min[0] || r.Max[1] <= r.Min[1]
}

func (r Rect2[T]) XYWH() (T, T, T, T) {
	x, y := r.Min.XY()
	w, h := r.Size().XY()
	return x, y, w, h
}
