package competition

import (
	"fmt"
	"time"
)

// Competition is one league or cup tracked in the local cache.
type Competition struct {
	ID              int
	Name            string
	Code            string
	Type            string
	AreaName        string
	AreaCode        string
	EmblemURL       string
	CurrentMatchday *int
	Plan            string
	LastUpdatedAt   *time.Time
}

func (c Competition) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("competition id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("competition name is required")
	}

	return nil
}
