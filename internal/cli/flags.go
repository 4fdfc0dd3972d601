package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// complexityFlag accepts a multiplier or a label such as "very-complex".
type complexityFlag struct {
	value domain.Complexity
}

var _ pflag.Value = (*complexityFlag)(nil)

func newComplexityFlag() *complexityFlag {
	return &complexityFlag{value: domain.ComplexityNormal}
}

func (f *complexityFlag) String() string { return strconv.FormatFloat(float64(f.value), 'f', -1, 64) }
func (f *complexityFlag) Type() string   { return "complexity" }

func (f *complexityFlag) Set(s string) error {
	c, err := domain.ParseComplexityString(s)
	if err != nil {
		return err
	}
	f.value = c
	return nil
}

// fractionFlag accepts a number in [0,1], or a percentage such as "40%".
type fractionFlag struct {
	value float64
	set   bool
}

var _ pflag.Value = (*fractionFlag)(nil)

func (f *fractionFlag) String() string { return strconv.FormatFloat(f.value, 'f', -1, 64) }
func (f *fractionFlag) Type() string   { return "fraction" }

func (f *fractionFlag) Set(s string) error {
	v, err := parseFraction(s)
	if err != nil {
		return err
	}
	f.value, f.set = v, true
	return nil
}

func parseFraction(s string) (float64, error) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if pct {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("%q must be within 0 and 1", s)
	}
	return v, nil
}

// addListFlags registers the flags shared by list commands.
func addListFlags(fs *pflag.FlagSet, all *bool, limit *int) {
	if all != nil {
		fs.BoolVar(all, "all", false, "include inactive entries")
	}
	if limit != nil {
		fs.IntVarP(limit, "limit", "n", 20, "maximum number of rows")
	}
}
