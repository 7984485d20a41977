package models

import "fmt"

const (
	SizeBonusFactor    = 0.1
	SpecialBonusFactor = 0.2
)

// BattlePower scores a Pokemon from its stat total, a size bonus derived from
// its BMI and a bonus for legendary or mythical status. It depends only on p.
func BattlePower(p *Pokemon) float64 {
	base := float64(p.TotalStats())
	size := p.BMI() * SizeBonusFactor

	var special float64
	if p.IsSpecial() {
		special = base * SpecialBonusFactor
	}

	return base + size + special
}

type Outcome string

const (
	FirstStronger  Outcome = "first"
	SecondStronger Outcome = "second"
	Tie            Outcome = "tie"
)

// Comparison is the verdict of a head-to-head battle power comparison.
type Comparison struct {
	First       *Pokemon `json:"first"`
	Second      *Pokemon `json:"second"`
	FirstPower  float64  `json:"first_power"`
	SecondPower float64  `json:"second_power"`
	Outcome     Outcome  `json:"outcome"`
}

func Compare(first, second *Pokemon) *Comparison {
	c := &Comparison{
		First:       first,
		Second:      second,
		FirstPower:  BattlePower(first),
		SecondPower: BattlePower(second),
	}

	switch {
	case c.FirstPower > c.SecondPower:
		c.Outcome = FirstStronger
	case c.SecondPower > c.FirstPower:
		c.Outcome = SecondStronger
	default:
		c.Outcome = Tie
	}

	return c
}

// Winner is nil on a tie.
func (c *Comparison) Winner() *Pokemon {
	switch c.Outcome {
	case FirstStronger:
		return c.First
	case SecondStronger:
		return c.Second
	default:
		return nil
	}
}

func (c *Comparison) String() string {
	header := fmt.Sprintf("%s (Power: %.2f) vs %s (Power: %.2f)\n", c.First.Name, c.FirstPower, c.Second.Name, c.SecondPower)
	if w := c.Winner(); w != nil {
		return header + w.Name + " is stronger!"
	}
	return header + "Both Pokemon have equal battle power!"
}
