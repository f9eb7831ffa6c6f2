package costbasis

import (
	"fmt"
	"strings"
)

// CostBasisMethod defines the accounting convention used to match disposals
// against open lots.
type CostBasisMethod int

const (
	// FIFO (First-In, First-Out) consumes the oldest lots first.
	FIFO CostBasisMethod = iota
	// LIFO (Last-In, First-Out) consumes the newest lots first.
	LIFO
	// AverageCost collapses all open lots into a single weighted-average lot
	// before each disposal.
	AverageCost
)

func (m CostBasisMethod) String() string {
	switch m {
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	case AverageCost:
		return "AVERAGE_COST"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIFO":
		return FIFO, nil
	case "LIFO":
		return LIFO, nil
	case "AVERAGE_COST", "AVERAGE", "AVG":
		return AverageCost, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so the method serializes by
// name in the Result envelope.
func (m CostBasisMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CostBasisMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseCostBasisMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// consumer maps the method to its lot-consumption strategy.
func (m CostBasisMethod) consumer() (consumeFunc, error) {
	switch m {
	case FIFO:
		return consumeFIFO, nil
	case LIFO:
		return consumeLIFO, nil
	case AverageCost:
		return consumeAverage, nil
	default:
		return nil, fmt.Errorf("unknown cost basis method: %d", m)
	}
}
