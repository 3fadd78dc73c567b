// Package nav defines the signals interactive menu layers use to unwind.
//
// Every menu loop returns a Signal instead of a sentinel string, so "back
// one level" and "back to the main menu" propagate through nested menus
// without each layer inspecting magic values.
package nav

// Signal tells the enclosing menu loop what to do next.
type Signal int

const (
	// Continue keeps the current menu loop running.
	Continue Signal = iota
	// ReturnToParent exits the current menu, resuming its parent.
	ReturnToParent
	// ReturnToRoot unwinds every nested menu back to the main menu.
	ReturnToRoot
)

func (s Signal) String() string {
	switch s {
	case Continue:
		return "continue"
	case ReturnToParent:
		return "return-to-parent"
	case ReturnToRoot:
		return "return-to-root"
	default:
		return "unknown"
	}
}

// Descend maps a signal returned by a child menu onto the action for the
// current menu: ReturnToParent is consumed here and the current loop
// continues, while ReturnToRoot keeps unwinding.
func Descend(child Signal) Signal {
	if child == ReturnToRoot {
		return ReturnToRoot
	}
	return Continue
}
