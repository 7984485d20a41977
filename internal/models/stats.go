package models

const (
	MinStat          = 1
	MaxStat          = 255
	DefaultStatValue = 50

	// BalanceTolerance is how far a stat may sit from the average for the block
	// to still count as balanced.
	BalanceTolerance = 20
)

// Stat names in canonical order. Ties between stats resolve to the earliest.
const (
	StatHP             = "HP"
	StatAttack         = "Attack"
	StatDefense        = "Defense"
	StatSpecialAttack  = "Special Attack"
	StatSpecialDefense = "Special Defense"
	StatSpeed          = "Speed"
)

// Stats is the six-value battle stat block of a Pokemon.
type Stats struct {
	HP             int `json:"hp"`
	Attack         int `json:"attack"`
	Defense        int `json:"defense"`
	SpecialAttack  int `json:"special_attack"`
	SpecialDefense int `json:"special_defense"`
	Speed          int `json:"speed"`
}

type StatValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func DefaultStats() *Stats {
	return &Stats{
		HP:             DefaultStatValue,
		Attack:         DefaultStatValue,
		Defense:        DefaultStatValue,
		SpecialAttack:  DefaultStatValue,
		SpecialDefense: DefaultStatValue,
		Speed:          DefaultStatValue,
	}
}

// NewStats builds a stat block, rejecting any value outside [MinStat, MaxStat].
func NewStats(hp, attack, defense, specialAttack, specialDefense, speed int) (*Stats, error) {
	s := &Stats{
		HP:             hp,
		Attack:         attack,
		Defense:        defense,
		SpecialAttack:  specialAttack,
		SpecialDefense: specialDefense,
		Speed:          speed,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stats) Validate() error {
	for _, v := range s.Values() {
		if v.Value < MinStat || v.Value > MaxStat {
			return Invalid("stats", v.Name+" must be between 1 and 255")
		}
	}
	return nil
}

// Values returns the stats in canonical order.
func (s *Stats) Values() []StatValue {
	return []StatValue{
		{StatHP, s.HP},
		{StatAttack, s.Attack},
		{StatDefense, s.Defense},
		{StatSpecialAttack, s.SpecialAttack},
		{StatSpecialDefense, s.SpecialDefense},
		{StatSpeed, s.Speed},
	}
}

func (s *Stats) Total() int {
	return s.HP + s.Attack + s.Defense + s.SpecialAttack + s.SpecialDefense + s.Speed
}

func (s *Stats) Average() float64 {
	return float64(s.Total()) / 6.0
}

// Dominant returns the name of the highest stat.
func (s *Stats) Dominant() string {
	values := s.Values()
	best := values[0]
	for _, v := range values[1:] {
		if v.Value > best.Value {
			best = v
		}
	}
	return best.Name
}

// Weakest returns the name of the lowest stat.
func (s *Stats) Weakest() string {
	values := s.Values()
	worst := values[0]
	for _, v := range values[1:] {
		if v.Value < worst.Value {
			worst = v
		}
	}
	return worst.Name
}

// IsBalanced compares against the truncated integer average.
func (s *Stats) IsBalanced() bool {
	avg := s.Total() / 6
	for _, v := range s.Values() {
		diff := v.Value - avg
		if diff < 0 {
			diff = -diff
		}
		if diff > BalanceTolerance {
			return false
		}
	}
	return true
}
