package analysis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// BifurcationPoint holds the distinct spike peaks seen at one parameter
// value.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// Sweep configures a bifurcation run.
type Sweep struct {
	Key       string
	Min, Max  float64
	Steps     int
	Transient int // ticks discarded before recording
	Record    int // ticks recorded
	Workers   int // concurrent sweep points; zero means unbounded
}

// Bifurcation sweeps s.Key over [Min, Max] and records the x values of
// local maxima after the transient, quantised to 1e-3.
func Bifurcation(ctx context.Context, p Probe, s Sweep) ([]BifurcationPoint, error) {
	if s.Steps <= 1 {
		s.Steps = 2
	}
	if s.Record <= 2 {
		return nil, fmt.Errorf("analysis: need more than two recorded ticks, got %d", s.Record)
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)

	results := make([]BifurcationPoint, s.Steps)
	g, ctx := errgroup.WithContext(ctx)
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	}

	for i := 0; i < s.Steps; i++ {
		param := s.Min + float64(i)*step
		i := i
		g.Go(func() error {
			values, err := peaks(ctx, p, s, param)
			if err != nil {
				return err
			}
			results[i] = BifurcationPoint{Param: param, Values: values}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func peaks(ctx context.Context, p Probe, s Sweep, param float64) ([]float64, error) {
	e, err := p.engine()
	if err != nil {
		return nil, err
	}
	if ok := e.Configure(s.Key, param); !ok {
		return nil, fmt.Errorf("analysis: unknown sweep key %q", s.Key)
	}

	for i := 0; i < s.Transient; i++ {
		if i%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.step(e)
	}

	values := make([]float64, 0, 16)
	seen := make(map[int]bool)
	prev2, prev1 := 0.0, 0.0
	for i := 0; i < s.Record; i++ {
		if i%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.step(e)
		x := e.State().X
		if i >= 2 && prev1 > prev2 && prev1 >= x {
			key := int(prev1 * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, prev1)
			}
		}
		prev2, prev1 = prev1, x
	}
	return values, nil
}

// BifurcationToASCII plots sweep results on a width x height grid.
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := newCanvas(width, height)
	for i, p := range data {
		col := i * width / len(data)
		for _, v := range p.Values {
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			canvas.set(col, row, '•')
		}
	}
	return canvas.String()
}

type canvas [][]rune

func newCanvas(width, height int) canvas {
	c := make(canvas, height)
	for i := range c {
		c[i] = []rune(strings.Repeat(" ", width))
	}
	return c
}

func (c canvas) set(col, row int, r rune) {
	if row >= 0 && row < len(c) && col >= 0 && col < len(c[row]) {
		c[row][col] = r
	}
}

func (c canvas) get(col, row int) rune {
	if row >= 0 && row < len(c) && col >= 0 && col < len(c[row]) {
		return c[row][col]
	}
	return 0
}

func (c canvas) String() string {
	var sb strings.Builder
	for _, row := range c {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
