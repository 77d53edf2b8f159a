package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Notation bounds
const (
	MaxDiceCount   = 100
	MinDieSides    = 2
	MaxDieSides    = 1000
	MaxAbsModifier = 1000

	parseCacheSize = 256
)

// KeepMode selects which dice of a pool count toward the total
type KeepMode string

// Keep modes
const (
	KeepAll     KeepMode = ""
	KeepHighest KeepMode = "kh"
	KeepLowest  KeepMode = "kl"
)

// NdS, optional kh/kl with a count, optional signed modifier
var notationRegex = regexp.MustCompile(`^(\d*)d(\d+)(?:(kh|kl)(\d+))?([+-]\d+)?$`)

var parseCache *lru.Cache[string, Expression]

func init() {
	cache, err := lru.New[string, Expression](parseCacheSize)
	if err != nil {
		panic(err)
	}
	parseCache = cache
}

// Expression is a parsed dice notation
type Expression struct {
	Count     int
	Sides     int
	Keep      KeepMode
	KeepCount int
	Modifier  int
}

// Kept returns how many dice count toward the total
func (e Expression) Kept() int {
	if e.Keep == KeepAll {
		return e.Count
	}
	return e.KeepCount
}

// String renders the canonical notation, e.g. "2d20kh1+3"
func (e Expression) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dd%d", e.Count, e.Sides)
	if e.Keep != KeepAll {
		fmt.Fprintf(&b, "%s%d", e.Keep, e.KeepCount)
	}
	if e.Modifier > 0 {
		fmt.Fprintf(&b, "+%d", e.Modifier)
	} else if e.Modifier < 0 {
		fmt.Fprintf(&b, "%d", e.Modifier)
	}
	return b.String()
}

// Parse reads dice notation such as "d20", "3d6+2" or "4d6kh3". Whitespace and
// case are ignored. Anything else, or values outside the notation bounds, is an
// InvalidArgument error.
func Parse(notation string) (Expression, error) {
	key := strings.ToLower(strings.Join(strings.Fields(notation), ""))
	if expr, ok := parseCache.Get(key); ok {
		return expr, nil
	}

	matches := notationRegex.FindStringSubmatch(key)
	if matches == nil {
		return Expression{}, errors.InvalidArgumentf("invalid dice notation %q (expected NdS[kh|klK][+M])", notation)
	}

	expr := Expression{Count: 1}
	var err error

	if matches[1] != "" {
		if expr.Count, err = strconv.Atoi(matches[1]); err != nil {
			return Expression{}, errors.InvalidArgumentf("invalid dice count in %q", notation)
		}
	}
	if expr.Sides, err = strconv.Atoi(matches[2]); err != nil {
		return Expression{}, errors.InvalidArgumentf("invalid die size in %q", notation)
	}
	if matches[3] != "" {
		expr.Keep = KeepMode(matches[3])
		if expr.KeepCount, err = strconv.Atoi(matches[4]); err != nil {
			return Expression{}, errors.InvalidArgumentf("invalid keep count in %q", notation)
		}
	}
	if matches[5] != "" {
		if expr.Modifier, err = strconv.Atoi(matches[5]); err != nil {
			return Expression{}, errors.InvalidArgumentf("invalid modifier in %q", notation)
		}
	}

	if err := expr.validate(); err != nil {
		return Expression{}, errors.Wrapf(err, "invalid dice notation %q", notation)
	}

	parseCache.Add(key, expr)
	return expr, nil
}

func (e Expression) validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("count", e.Count, 1, MaxDiceCount, vb)
	errors.ValidateRange("sides", e.Sides, MinDieSides, MaxDieSides, vb)
	if e.Keep != KeepAll {
		errors.ValidateRange("keep", e.KeepCount, 1, e.Count, vb)
	}
	errors.ValidateRange("modifier", e.Modifier, -MaxAbsModifier, MaxAbsModifier, vb)
	return vb.Build()
}
