package level

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravpaint/internal/objective"
	"github.com/san-kum/gravpaint/internal/world"
)

type Mode int

const (
	Easy Mode = iota
	Medium
	Hard
)

var modeNames = [...]string{"easy", "medium", "hard"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return Medium, fmt.Errorf("%w: mode %q", ErrUnknownKind, s)
}

// modifiers scale time, stroke budget and gravity per mode.
func (m Mode) modifiers() (timeMod float64, strokeMod int, gravityMod float64) {
	switch m {
	case Easy:
		return 1.5, 3, 0.7
	case Hard:
		return 0.7, -2, 1.3
	default:
		return 1, 0, 1
	}
}

var obstacleColor = colorful.Color{R: 80.0 / 255, G: 80.0 / 255, B: 100.0 / 255}

func Tutorial() *Level {
	return &Level{
		ID:         0,
		Name:       "Tutorial",
		Width:      ScreenWidth,
		Height:     ScreenHeight,
		TimeLimit:  120,
		MaxStrokes: 10,
		Tutorial:   true,
		TutorialSteps: []string{
			"Swipe anywhere to create a gravity field!",
			"The ball will be pulled in the direction you swipe.",
			"Guide the ball to the green goal zone to complete the level!",
		},
		GravityScale: 1,
		Goal:         Rect{X: ScreenWidth / 4, Y: ScreenHeight - 200, W: ScreenWidth / 2, H: 150},
		Spawns: []Spawn{{
			Position: Point{X: ScreenWidth / 2, Y: 200},
			Kind:     world.Ball.String(),
			Size:     1,
			Energy:   50,
			Color:    world.Cyan.Hex(),
		}},
		Objective: objective.Spec{Type: objective.ReachGoal.String(), Count: 1},
		Stars:     [3]int{50, 100, 150},
	}
}

// Difficulty is the tier of a numbered level: 1 for levels 1-10, 2 for 11-20
// and so on.
func Difficulty(id int) int { return 1 + (id-1)/10 }

// Generate builds numbered level id deterministically; the same id and mode
// always give the same layout.
func Generate(id int, mode Mode) *Level {
	difficulty := Difficulty(id)
	rng := rand.New(rand.NewPCG(uint64(id)*12345, 0))
	timeMod, strokeMod, gravityMod := mode.modifiers()

	const w, h = ScreenWidth, ScreenHeight
	l := &Level{
		ID:           id,
		Name:         fmt.Sprintf("Level %d", id),
		Width:        w,
		Height:       h,
		Difficulty:   difficulty,
		TimeLimit:    max(20, float64(90-difficulty*3)*timeMod),
		MaxStrokes:   max(2, 5-difficulty/5+strokeMod),
		GravityScale: gravityMod,
		Goal: Rect{
			X: w/4 + float64(id%5)*w/10,
			Y: h - 150 - float64(id%3)*50,
			W: 150,
			H: 80,
		},
	}

	objects := min(1+id/5, 5)
	for i := range objects {
		pos := Point{X: 80 + rng.Float64()*(w-160), Y: 150 + rng.Float64()*200}
		kind := world.Kinds[int(rng.Float64()*float64(len(world.Kinds)))]
		delay := float64(i) * (1 + rng.Float64())
		size := 0.8 + rng.Float64()*0.4
		energy := 40 + rng.Float64()*30
		c := colorful.Color{
			R: 0.5 + rng.Float64()*0.5,
			G: 0.5 + rng.Float64()*0.5,
			B: 0.5 + rng.Float64()*0.5,
		}
		l.Spawns = append(l.Spawns, Spawn{
			Position: pos,
			Kind:     kind.String(),
			Delay:    delay,
			Size:     size,
			Energy:   energy,
			Color:    c.Hex(),
		})
	}

	for range max(0, (id-5)/3) {
		l.Obstacles = append(l.Obstacles, Obstacle{
			Position: Point{X: 80 + rng.Float64()*(w-160), Y: h/3 + rng.Float64()*h/3},
			Size:     Point{X: 60 + rng.Float64()*80, Y: 12 + rng.Float64()*15},
			Rotation: rng.Float64()*0.5 - 0.25,
			Circle:   rng.Float64() > 0.7,
			Color:    obstacleColor.Hex(),
		})
	}

	l.Objective = objective.Spec{Type: objective.ReachGoal.String(), Count: objects}
	base := 100 + difficulty*20
	l.Stars = [3]int{base, base * 2, base * 3}
	return l
}

// Random builds a one-off level for the given difficulty from seed.
func Random(difficulty int, seed uint64) *Level {
	rng := rand.New(rand.NewPCG(seed, 0))
	const w, h = ScreenWidth, ScreenHeight

	count := 1 + difficulty/2
	l := &Level{
		ID:           -1,
		Name:         fmt.Sprintf("Random %d", difficulty),
		Width:        w,
		Height:       h,
		Difficulty:   difficulty,
		TimeLimit:    max(20, float64(90-difficulty*5)),
		MaxStrokes:   5,
		GravityScale: 1,
		Goal:         Rect{X: w/2 - 100, Y: h - 150, W: 200, H: 100},
		Objective:    objective.Spec{Type: objective.ReachGoal.String(), Count: count},
		Stars:        [3]int{100, 200, 350},
	}

	for i := range count {
		kind := world.Kinds[i%len(world.Kinds)]
		l.Spawns = append(l.Spawns, Spawn{
			Position: Point{X: 100 + rng.Float64()*(w-200), Y: 100 + rng.Float64()*(h/2-100)},
			Kind:     kind.String(),
			Delay:    float64(i) * 1.5,
			Size:     1,
			Energy:   world.DefaultEnergy,
			Color:    world.Cyan.Hex(),
		})
	}

	for i := range difficulty / 3 {
		x := 100 + rng.Float64()*(w-200)
		y := 100 + rng.Float64()*(h/2-100)
		l.Obstacles = append(l.Obstacles, Obstacle{
			Position: Point{X: x, Y: h/2 + y/2},
			Size:     Point{X: 100, Y: 20},
			Circle:   i%2 == 0,
			Color:    obstacleColor.Hex(),
		})
	}
	return l
}

// Builtin returns the tutorial for id 0 and generated levels for 1..TotalLevels.
func Builtin(id int, mode Mode) (*Level, error) {
	switch {
	case id == 0:
		return Tutorial(), nil
	case id >= 1 && id <= TotalLevels:
		return Generate(id, mode), nil
	}
	return nil, fmt.Errorf("%w: no built-in level %d (0-%d)", ErrInvalidLevel, id, TotalLevels)
}
