package domain

// StatusCounts tallies grievances per status.
type StatusCounts struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Assigned   int64 `json:"assigned"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Rejected   int64 `json:"rejected"`
	Escalated  int64 `json:"escalated"`
}

// Add counts one grievance.
func (c *StatusCounts) Add(g *Grievance) {
	c.Total++
	switch g.Status {
	case StatusPending:
		c.Pending++
	case StatusAssigned:
		c.Assigned++
	case StatusInProgress:
		c.InProgress++
	case StatusResolved:
		c.Resolved++
	case StatusRejected:
		c.Rejected++
	}
	if g.IsEscalated {
		c.Escalated++
	}
}

// Active counts grievances that are not terminal.
func (c StatusCounts) Active() int64 {
	return c.Pending + c.Assigned + c.InProgress
}

// DepartmentStats aggregates grievances for one department.
type DepartmentStats struct {
	Department Department   `json:"department"`
	Counts     StatusCounts `json:"counts"`
}

// MonthlyStats aggregates grievances by creation month (YYYY-MM).
type MonthlyStats struct {
	Month    string `json:"month"`
	Created  int64  `json:"created"`
	Resolved int64  `json:"resolved"`
}
