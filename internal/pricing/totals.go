package pricing

import (
	"fmt"
	"math"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// Economics is a points/hours/price triple.
type Economics struct {
	Points float64 `json:"points"`
	Hours  float64 `json:"hours"`
	Price  float64 `json:"price"`
}

// ScaleFromPoints maps a point value to hours and price using the rate card.
func (c Config) ScaleFromPoints(points float64) Economics {
	return Economics{
		Points: points,
		Hours:  points * c.HoursPerPoint,
		Price:  points * c.PricePerPoint,
	}
}

// Base returns a deliverable's unit economics. Fixed hours and price win;
// a zero fixed value falls back to the point scale.
func (c Config) Base(d domain.Deliverable) Economics {
	scaled := c.ScaleFromPoints(d.PointEstimate)
	base := Economics{Points: d.PointEstimate, Hours: d.FixedHours, Price: d.FixedPrice}
	if base.Hours == 0 {
		base.Hours = scaled.Hours
	}
	if base.Price == 0 {
		base.Price = scaled.Price
	}
	return base
}

// LineTotals multiplies each base field by quantity and complexity.
func LineTotals(base Economics, quantity int, complexity domain.Complexity) (Economics, error) {
	if quantity < 1 {
		return Economics{}, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, quantity)
	}
	if _, err := domain.ParseComplexity(float64(complexity)); err != nil {
		return Economics{}, err
	}
	factor := float64(quantity) * float64(complexity)
	return Economics{
		Points: base.Points * factor,
		Hours:  base.Hours * factor,
		Price:  base.Price * factor,
	}, nil
}

// Line is one input row for Aggregate.
type Line struct {
	Base       Economics
	Quantity   int
	Complexity domain.Complexity
}

// Totals is the aggregate over a full line set, reported at cent precision.
type Totals struct {
	Points float64 `json:"points"`
	Hours  float64 `json:"hours"`
	Price  float64 `json:"price"`
	Count  int     `json:"count"`
}

// Aggregate sums LineTotals over lines and sums quantities for Count.
// Sums are accumulated in hundredths so the result does not depend on
// line order.
func Aggregate(lines []Line) (Totals, error) {
	var points, hours, price int64
	count := 0
	for i, l := range lines {
		t, err := LineTotals(l.Base, l.Quantity, l.Complexity)
		if err != nil {
			return Totals{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		points += hundredths(t.Points)
		hours += hundredths(t.Hours)
		price += hundredths(t.Price)
		count += l.Quantity
	}
	return Totals{
		Points: float64(points) / 100,
		Hours:  float64(hours) / 100,
		Price:  float64(price) / 100,
		Count:  count,
	}, nil
}

func hundredths(v float64) int64 {
	return int64(math.Round(v * 100))
}

// LineFromSprint converts a stored sprint line into an Aggregate input.
func LineFromSprint(l domain.SprintLine) Line {
	return Line{
		Base:       Economics{Points: l.BasePoints, Hours: l.BaseHours, Price: l.BasePrice},
		Quantity:   l.Quantity,
		Complexity: l.Complexity,
	}
}

// ApplyLine recomputes the derived custom values of a sprint line from its
// base, quantity and complexity.
func ApplyLine(l *domain.SprintLine) error {
	t, err := LineTotals(Economics{Points: l.BasePoints, Hours: l.BaseHours, Price: l.BasePrice}, l.Quantity, l.Complexity)
	if err != nil {
		return err
	}
	l.CustomPoints = t.Points
	l.CustomHours = t.Hours
	l.CustomPrice = t.Price
	return nil
}

// SnapshotLine builds a priced line for d. The caller sets ids, order and
// timestamps.
func (c Config) SnapshotLine(d domain.Deliverable, quantity int, complexity domain.Complexity) (domain.SprintLine, error) {
	base := c.Base(d)
	id := d.ID
	l := domain.SprintLine{
		DeliverableID:    &id,
		NameSnapshot:     d.Name,
		CategorySnapshot: d.Category,
		ScopeSnapshot:    d.Scope,
		BasePoints:       base.Points,
		BaseHours:        base.Hours,
		BasePrice:        base.Price,
		Quantity:         quantity,
		Complexity:       complexity,
	}
	if err := ApplyLine(&l); err != nil {
		return domain.SprintLine{}, err
	}
	return l, nil
}

// AggregateSprint recomputes a sprint's totals from its full line set.
func AggregateSprint(s *domain.Sprint, lines []domain.SprintLine) error {
	in := make([]Line, len(lines))
	for i, l := range lines {
		in[i] = LineFromSprint(l)
	}
	t, err := Aggregate(in)
	if err != nil {
		return err
	}
	s.TotalPoints = t.Points
	s.TotalHours = t.Hours
	s.TotalPrice = t.Price
	s.DeliverableCount = t.Count
	return nil
}
