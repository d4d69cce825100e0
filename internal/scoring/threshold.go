package scoring

import "fmt"

type Kind int

const (
	// Unreachable cells can never be satisfied, e.g. a tier above the late ceiling.
	Unreachable Kind = iota
	// Always cells are satisfied by any time; used by report tasks.
	Always
	// At cells require a time strictly below the stored bound.
	At
)

// Threshold is one cell of the point table.
type Threshold struct {
	Kind  Kind
	Bound float64
}

func Never() Threshold { return Threshold{Kind: Unreachable} }
func Anytime() Threshold { return Threshold{Kind: Always} }
func Below(t float64) Threshold { return Threshold{Kind: At, Bound: t} }

func (th Threshold) Satisfied(t float64) bool {
	switch th.Kind {
	case Always:
		return true
	case At:
		return t < th.Bound
	default:
		return false
	}
}

func (th Threshold) String() string {
	switch th.Kind {
	case Always:
		return "any"
	case At:
		return fmt.Sprintf("< %.2f", th.Bound)
	default:
		return "-"
	}
}
