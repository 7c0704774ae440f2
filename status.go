package bitbaby

// Status classifies how a trade performed against its expected profit.
type Status string

const (
	StatusHit  Status = "hit"  // reached the expected profit
	StatusMiss Status = "miss" // below the expected profit
	StatusOver Status = "over" // above the expected profit
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusHit, StatusMiss, StatusOver}

// ParseStatus never fails: anything unknown, including "", is StatusHit.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusMiss:
		return StatusMiss
	case StatusOver:
		return StatusOver
	default:
		return StatusHit
	}
}

// Label returns the human readable label of s.
func (s Status) Label() string {
	switch s {
	case StatusMiss:
		return "Target missed"
	case StatusOver:
		return "Target exceeded"
	default:
		return "Target hit"
	}
}

// Class returns the presentation class of s.
func (s Status) Class() string { return "status-" + string(ParseStatus(string(s))) }
