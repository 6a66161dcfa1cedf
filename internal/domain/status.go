package domain

// Rollup scans the statuses in insertion order and returns the first one that
// is not Agreed. An empty sequence, or one where every location agrees, rolls
// up to Agreed. Order decides ties: an early Pending wins over a later Issues.
func Rollup(statuses []LocationStatus) StatusKind {
	for _, ls := range statuses {
		if ls.Status != StatusAgreed {
			return ls.Status
		}
	}
	return StatusAgreed
}

// BadgeStyle maps a status onto the badge class used by report tables.
func BadgeStyle(s StatusKind) string {
	switch s {
	case StatusAgreed:
		return "success"
	case StatusPending, StatusReCheck:
		return "warning"
	case StatusIssues:
		return "danger"
	default:
		return "neutral"
	}
}
