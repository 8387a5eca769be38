package models

import "fmt"

// TimeSlot selects the report window. It is never stored.
type TimeSlot int

const (
	Now TimeSlot = iota
	Today
	Tomorrow
	DayAfterTomorrow
)

// TimeSlots lists the slots in the order they are offered to the user.
var TimeSlots = []TimeSlot{Now, Today, Tomorrow, DayAfterTomorrow}

// DayIndex returns the forecast day the slot reports on, or -1 for Now.
func (s TimeSlot) DayIndex() int {
	switch s {
	case Today:
		return 0
	case Tomorrow:
		return 1
	case DayAfterTomorrow:
		return 2
	}
	return -1
}

func (s TimeSlot) String() string {
	switch s {
	case Now:
		return "now"
	case Today:
		return "today"
	case Tomorrow:
		return "tomorrow"
	case DayAfterTomorrow:
		return "after"
	}
	return fmt.Sprintf("TimeSlot(%d)", int(s))
}

// ParseTimeSlot parses the String form of a slot.
func ParseTimeSlot(s string) (TimeSlot, error) {
	for _, slot := range TimeSlots {
		if slot.String() == s {
			return slot, nil
		}
	}
	return 0, fmt.Errorf("unknown time slot %q", s)
}
