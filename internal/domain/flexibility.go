package domain

import "fmt"

// Flexibility is a task's tolerance for being rescheduled.
type Flexibility string

const (
	FlexibilityStrict Flexibility = "strict"
	Flexibility15m    Flexibility = "±15m"
	Flexibility30m    Flexibility = "±30m"
	Flexibility2h     Flexibility = "±2h"

	DefaultFlexibility = Flexibility30m
)

func (f Flexibility) String() string {
	return string(f)
}

// WindowMinutes maps the flexibility to its tolerance window size.
// An unset flexibility uses DefaultFlexibility.
func (f Flexibility) WindowMinutes() int {
	switch f.OrDefault() {
	case FlexibilityStrict:
		return 0
	case Flexibility15m:
		return 15
	case Flexibility30m:
		return 30
	case Flexibility2h:
		return 120
	default:
		return DefaultFlexibility.WindowMinutes()
	}
}

func (f Flexibility) OrDefault() Flexibility {
	if f == "" {
		return DefaultFlexibility
	}
	return f
}

func ParseFlexibility(raw string) (Flexibility, error) {
	switch Flexibility(raw) {
	case FlexibilityStrict, Flexibility15m, Flexibility30m, Flexibility2h:
		return Flexibility(raw), nil
	case "":
		return DefaultFlexibility, nil
	default:
		return "", fmt.Errorf("%w: unknown flexibility %q", ErrInvalidTask, raw)
	}
}
