package model

// Competitor is a contestant in the running competition. The HD, Tof, D and P
// fields are free-text scoring annotations maintained by officials; the
// backend stores them verbatim.
type Competitor struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Surname          string `json:"surname"`
	CompetitorNumber string `json:"competitor_number"`
	Group            string `json:"group"`
	Club             string `json:"club"`
	HD               string `json:"hd"`
	Tof              string `json:"tof"`
	D                string `json:"d"`
	P                string `json:"p"`
	Active           bool   `json:"active"`
}
