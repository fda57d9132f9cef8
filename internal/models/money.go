package models

import "github.com/shopspring/decimal"

// PerProfile holds one amount for each of the two profiles.
type PerProfile struct {
	Pea decimal.Decimal `json:"pea"`
	Cam decimal.Decimal `json:"cam"`
}

// Get returns the amount for the given profile id.
// Unknown ids yield zero.
func (p PerProfile) Get(id string) decimal.Decimal {
	switch id {
	case Pea:
		return p.Pea
	case Cam:
		return p.Cam
	}
	return decimal.Zero
}

// Set stores amount for the given profile id. Unknown ids are ignored.
func (p *PerProfile) Set(id string, amount decimal.Decimal) {
	switch id {
	case Pea:
		p.Pea = amount
	case Cam:
		p.Cam = amount
	}
}

// Add returns the element-wise sum of p and other.
func (p PerProfile) Add(other PerProfile) PerProfile {
	return PerProfile{Pea: p.Pea.Add(other.Pea), Cam: p.Cam.Add(other.Cam)}
}

// Total returns the sum of both amounts.
func (p PerProfile) Total() decimal.Decimal {
	return p.Pea.Add(p.Cam)
}
