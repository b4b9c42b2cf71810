package config

import "github.com/san-kum/gravpaint/internal/level"

func swipe(at, x0, y0, x1, y1 float64) StrokeConfig {
	return StrokeConfig{At: at, From: level.Point{X: x0, Y: y0}, To: level.Point{X: x1, Y: y1}}
}

var screen = ScreenConfig{Width: DefaultWidth, Height: DefaultHeight}

var Presets = map[string]map[string]*Config{
	"tutorial": {
		"idle": {
			Level: 0, Mode: "medium", Dt: DefaultDt, Duration: 20.0, Screen: screen,
		},
		"swipe_down": {
			Level: 0, Mode: "medium", Dt: DefaultDt, Duration: 20.0, Screen: screen,
			Strokes: []StrokeConfig{
				swipe(0.5, 540, 250, 540, 550),
				swipe(2.5, 540, 700, 540, 1000),
				swipe(4.5, 540, 1200, 540, 1500),
			},
		},
	},
	"campaign": {
		"first": {
			Level: 1, Mode: "medium", Dt: DefaultDt, Duration: 60.0, Screen: screen,
		},
		"crowded": {
			Level: 25, Mode: "easy", Dt: DefaultDt, Duration: 60.0, Screen: screen,
		},
		"obstacles": {
			Level: 40, Mode: "hard", Dt: DefaultDt, Duration: 60.0, Screen: screen,
		},
	},
	"random": {
		"gentle": {
			Random: 2, Seed: 7, Mode: "medium", Dt: DefaultDt, Duration: 45.0, Screen: screen,
		},
		"heavy": {
			Random: 8, Seed: 99, Mode: "medium", Dt: DefaultDt, Duration: 45.0, GravityScale: 1.5, Screen: screen,
		},
	},
}

func GetPreset(group, preset string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	return names
}
