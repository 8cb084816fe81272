package accounts

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
)

// Sheet holds signed balances. Balances may go negative since senders are
// never checked for funds.
type Sheet struct {
	balances map[string]float64
}

func NewSheet() *Sheet {
	return &Sheet{
		balances: map[string]float64{},
	}
}

func (s *Sheet) Credit(id string, amount float64) {
	s.balances[id] += amount
}

func (s *Sheet) Debit(id string, amount float64) {
	s.balances[id] -= amount
}

// Balance is 0 for an id that never appeared.
func (s *Sheet) Balance(id string) float64 {
	return s.balances[id]
}

func (s *Sheet) Has(id string) bool {
	_, ok := s.balances[id]
	return ok
}

func (s *Sheet) Len() int {
	return len(s.balances)
}

func (s *Sheet) Ids() []string {
	ids := maps.Keys(s.balances)
	slices.Sort(ids)
	return ids
}

// Total sums every balance except the excluded ids. Transfers are zero-sum,
// so excluding the minting sender yields the minted supply.
func (s *Sheet) Total(exclude ...string) float64 {
	vals := make([]float64, 0, len(s.balances))
	for _, id := range s.Ids() {
		if slices.Contains(exclude, id) {
			continue
		}
		vals = append(vals, s.balances[id])
	}
	return floats.Sum(vals)
}
