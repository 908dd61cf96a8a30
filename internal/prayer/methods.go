package prayer

import (
	"fmt"
	"sort"
	"time"
)

// Convention selects how the afternoon (asr) shadow length is measured.
type Convention string

const (
	// ShadowStandard computes asr when an object's shadow exceeds its
	// noon shadow by one object length (Shafi, Maliki, Hanbali).
	ShadowStandard Convention = "standard"
	// ShadowHanafi computes asr at two object lengths.
	ShadowHanafi Convention = "hanafi"
)

// Factor returns the shadow-length multiple for the convention.
// Unknown values fall back to the standard convention.
func (c Convention) Factor() float64 {
	if c == ShadowHanafi {
		return 2
	}
	return 1
}

// Method is a regional calculation standard: the solar depression angles
// used for fajr and isha, or a fixed isha interval after maghrib.
type Method struct {
	Name         string
	FajrAngle    float64       // degrees below the horizon
	IshaAngle    float64       // degrees below the horizon; ignored if IshaInterval > 0
	IshaInterval time.Duration // fixed offset from maghrib, when nonzero
}

var methods = map[string]Method{
	"MuslimWorldLeague": {Name: "MuslimWorldLeague", FajrAngle: 18, IshaAngle: 17},
	"NorthAmerica":      {Name: "NorthAmerica", FajrAngle: 15, IshaAngle: 15},
	"Egyptian":          {Name: "Egyptian", FajrAngle: 19.5, IshaAngle: 17.5},
	"Karachi":           {Name: "Karachi", FajrAngle: 18, IshaAngle: 18},
	"UmmAlQura":         {Name: "UmmAlQura", FajrAngle: 18.5, IshaInterval: 90 * time.Minute},
}

// MethodByName returns the named calculation method preset.
func MethodByName(name string) (Method, error) {
	if m, ok := methods[name]; ok {
		return m, nil
	}
	return Method{}, fmt.Errorf("unknown calculation method '%s' (known: %v)", name, MethodNames())
}

// MethodNames lists the recognized method presets in sorted order.
func MethodNames() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Settings is the static calculation configuration applied to every day.
type Settings struct {
	Method    Method
	Afternoon Convention
	// Adjustments shifts individual events by whole minutes after
	// computation (positive = later).
	Adjustments map[Event]int
}

// DefaultSettings returns the North America preset with the standard
// afternoon convention and no adjustments.
func DefaultSettings() Settings {
	m, _ := MethodByName("NorthAmerica")
	return Settings{Method: m, Afternoon: ShadowStandard}
}
