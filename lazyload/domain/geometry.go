package domain

// Region é um retângulo em coordenadas do viewport (como getBoundingClientRect).
type Region struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Region) Bottom() float64 { return r.Top + r.Height }
func (r Region) Right() float64 { return r.Left + r.Width }
func (r Region) Area() float64 { return r.Width * r.Height }

// Expand aumenta o retângulo em m pixels de cada lado (m negativo encolhe).
func (r Region) Expand(m float64) Region {
	return Region{Top: r.Top - m, Left: r.Left - m, Width: r.Width + 2*m, Height: r.Height + 2*m}
}

// Intersect devolve a interseção e se ela existe. Retângulos que apenas se
// tocam na borda contam como interseção de área zero.
func (r Region) Intersect(o Region) (Region, bool) {
	top := max(r.Top, o.Top)
	left := max(r.Left, o.Left)
	bottom := min(r.Bottom(), o.Bottom())
	right := min(r.Right(), o.Right())
	if bottom < top || right < left {
		return Region{}, false
	}
	return Region{Top: top, Left: left, Width: right - left, Height: bottom - top}, true
}

// Viewport é o tamanho da área visível do navegador.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (v Viewport) Region() Region {
	return Region{Width: v.Width, Height: v.Height}
}
