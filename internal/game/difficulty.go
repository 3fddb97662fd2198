package game

type Difficulty struct {
	Name       string
	Multiplier float64 // density multiplier applied by the compiler
}

// Difficulties are compiled in this order; Normal is the default.
var Difficulties = []Difficulty{
	{Name: "easy", Multiplier: 0.5},
	{Name: "normal", Multiplier: 0.75},
	{Name: "hard", Multiplier: 1.0},
}

func DifficultyByName(name string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if d.Name == name {
			return d, true
		}
	}
	return Difficulty{}, false
}
