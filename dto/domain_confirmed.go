package dto

import "time"

// DomainConfirmed is emitted once per domain that survived scoring and
// availability validation and was upserted into the store
type DomainConfirmed struct {
	DomainName    string    `json:"domainName"`
	Tld           string    `json:"tld"`
	DropDate      time.Time `json:"dropDate"`
	DaysUntilDrop int       `json:"daysUntilDrop"`
	Status        string    `json:"status"`
	Score         int       `json:"score"`
	Registrar     string    `json:"registrar"`
}
