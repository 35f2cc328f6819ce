package analysis

import "fmt"

type Point struct{ X, Y float64 }

// PhasePortrait2D is a trajectory projected onto two state variables.
type PhasePortrait2D struct {
	XVar, YVar string
	Points     []Point
}

// PhasePortrait records xVar against yVar for ticks after transient.
func PhasePortrait(p Probe, xVar, yVar string, transient, ticks int) (*PhasePortrait2D, error) {
	fx, err := stateVar(xVar)
	if err != nil {
		return nil, err
	}
	fy, err := stateVar(yVar)
	if err != nil {
		return nil, err
	}
	e, err := p.engine()
	if err != nil {
		return nil, err
	}

	for i := 0; i < transient; i++ {
		p.step(e)
	}
	portrait := &PhasePortrait2D{XVar: xVar, YVar: yVar, Points: make([]Point, 0, ticks)}
	for i := 0; i < ticks; i++ {
		p.step(e)
		s := e.State()
		portrait.Points = append(portrait.Points, Point{fx(s), fy(s)})
	}
	return portrait, nil
}

// PhasePortraitToASCII draws the portrait with 10% padding and the axes
// where they fall inside the view.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 1 || height <= 1 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, pt := range portrait.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX, rangeY = maxX-minX, maxY-minY

	c := newCanvas(width, height)
	for _, pt := range portrait.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		c.set(col, row, '•')
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if c.get(col, row) == ' ' {
				c.set(col, row, '│')
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if c.get(col, row) == ' ' {
				c.set(col, row, '─')
			}
		}
	}
	return c.String()
}

// PoincareSection records (recordX, recordY) at each upward crossing of
// threshold by crossVar, linearly interpolated to the crossing instant.
func PoincareSection(p Probe, crossVar string, threshold float64, recordX, recordY string, ticks int) (*PhasePortrait2D, error) {
	fc, err := stateVar(crossVar)
	if err != nil {
		return nil, err
	}
	fx, err := stateVar(recordX)
	if err != nil {
		return nil, err
	}
	fy, err := stateVar(recordY)
	if err != nil {
		return nil, err
	}
	e, err := p.engine()
	if err != nil {
		return nil, err
	}
	if ticks <= 0 {
		return nil, fmt.Errorf("analysis: ticks must be positive, got %d", ticks)
	}

	section := &PhasePortrait2D{XVar: recordX, YVar: recordY}
	prev := e.State()
	for i := 0; i < ticks; i++ {
		p.step(e)
		cur := e.State()
		a, b := fc(prev), fc(cur)
		if a < threshold && b >= threshold {
			frac := (threshold - a) / (b - a)
			section.Points = append(section.Points, Point{
				X: fx(prev) + frac*(fx(cur)-fx(prev)),
				Y: fy(prev) + frac*(fy(cur)-fy(prev)),
			})
		}
		prev = cur
	}
	return section, nil
}
