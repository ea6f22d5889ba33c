package order

import (
	"fmt"

	"storymap/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// Happy path:
//
//	pending ──> design_review ──> approved ──> in_production ──> quality_check ──> packaging ──> shipped ──> delivered
//
// Cancelled and Refunded are exception states reachable by an administrative
// override. Status is stored and transmitted by its string value.
type Status string

const (
	// Pending is the status of a freshly placed order.
	Pending Status = "pending"

	// DesignReview means operations staff are checking the map design.
	DesignReview Status = "design_review"

	// Approved designs may be exported for manufacturing.
	Approved Status = "approved"

	// InProduction means the panel is on the machine.
	InProduction Status = "in_production"

	// QualityCheck follows manufacturing.
	QualityCheck Status = "quality_check"

	Packaging Status = "packaging"
	Shipped   Status = "shipped"

	// Delivered is the final state of the happy path.
	Delivered Status = "delivered"

	// Cancelled is a terminal exception state.
	Cancelled Status = "cancelled"

	// Refunded is a terminal exception state.
	Refunded Status = "refunded"
)

// getHappyPath returns the position of every happy path status.
// Exception states are not part of it.
func getHappyPath() map[Status]int {
	return map[Status]int{
		Pending:      0,
		DesignReview: 1,
		Approved:     2,
		InProduction: 3,
		QualityCheck: 4,
		Packaging:    5,
		Shipped:      6,
		Delivered:    7,
	}
}

// Statuses returns every valid status, happy path first.
func Statuses() []Status {
	return []Status{
		Pending, DesignReview, Approved, InProduction, QualityCheck,
		Packaging, Shipped, Delivered, Cancelled, Refunded,
	}
}

// ParseStatus converts a stored or transmitted value into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate checks if the Status value is one of the known statuses.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getHappyPath()[s]; ok || s == Cancelled || s == Refunded {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", string(s)))
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further lifecycle progress is expected.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Refunded
}

// IsExportable reports whether manufacturing files may be generated for an
// order in this status.
func (s Status) IsExportable() bool {
	return s == Approved || s == InProduction || s == QualityCheck
}
