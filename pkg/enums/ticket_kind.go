package enums

import "fmt"

// TicketKind defines the pricing category of a tour ticket.
type TicketKind string

const (
	TicketKindAdult           TicketKind = "adult"
	TicketKindChild           TicketKind = "child"
	TicketKindPerGroupOfThree TicketKind = "per_group_3"
	TicketKindPerGroupOfFive  TicketKind = "per_group_5"
	TicketKindPerGroupOfSeven TicketKind = "per_group_7"
	TicketKindPerGroupOfTen   TicketKind = "per_group_10"
)

var validTicketKinds = []TicketKind{
	TicketKindAdult,
	TicketKindChild,
	TicketKindPerGroupOfThree,
	TicketKindPerGroupOfFive,
	TicketKindPerGroupOfSeven,
	TicketKindPerGroupOfTen,
}

// String implements fmt.Stringer.
func (t TicketKind) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketKind.
func (t TicketKind) IsValid() bool {
	for _, candidate := range validTicketKinds {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketKind converts raw input into a TicketKind.
func ParseTicketKind(value string) (TicketKind, error) {
	for _, candidate := range validTicketKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket kind %q", value)
}
