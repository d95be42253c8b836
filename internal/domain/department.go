package domain

import "time"

// Department represents an entry in the department registry. Tasks and users
// reference departments by name, not by id.
type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
