package player

import (
	"errors"
	"testing"
)

type setCall struct {
	key   string
	value float64
}

type fakeGenerator struct {
	base  BaseKey
	calls []setCall
}

func (g *fakeGenerator) SetParameter(key string, value float64) error {
	g.calls = append(g.calls, setCall{key, value})
	return nil
}

func (g *fakeGenerator) Next() float64 { return 0 }

func newRegistryPlayer(t *testing.T, supports ...BaseKey) (*Player, *int) {
	t.Helper()
	created := 0
	v := Variant{
		Name:     "registry",
		Supports: supports,
		Gesture:  &scriptedGesture{},
		NewGenerator: func(base BaseKey) Generator {
			created++
			return &fakeGenerator{base: base}
		},
	}
	p, err := New(v)
	if err != nil {
		t.Fatalf("expected player, got error %v", err)
	}
	return p, &created
}

func TestSetGeneratorParameterSharesGeneratorPerBaseKey(t *testing.T) {
	p, created := newRegistryPlayer(t, "tempo")

	if err := p.SetGeneratorParameter("tempo.base", 120); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	first := p.Generator("tempo")
	if err := p.SetGeneratorParameter("tempo.accent", 5); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	g, ok := p.Generator("tempo").(*fakeGenerator)
	if !ok {
		t.Fatalf("expected a registered generator for tempo")
	}
	if Generator(g) != first {
		t.Fatalf("expected the same generator instance for both keys")
	}
	if *created != 1 {
		t.Fatalf("expected one generator created, got %d", *created)
	}
	expected := []setCall{{"tempo.base", 120}, {"tempo.accent", 5}}
	if len(g.calls) != 2 || g.calls[0] != expected[0] || g.calls[1] != expected[1] {
		t.Fatalf("expected %v, got %v", expected, g.calls)
	}
}

func TestGeneratorAbsentBeforeFirstParameter(t *testing.T) {
	p, _ := newRegistryPlayer(t, "pitch")

	if p.Generator("pitch") != nil {
		t.Fatalf("expected no generator before any parameter is set")
	}
	if !p.Supports("pitch") {
		t.Fatalf("expected pitch to be supported")
	}
	if p.Generator("volume") != nil || p.Supports("volume") {
		t.Fatalf("expected volume to be unsupported and absent")
	}
}

func TestSetGeneratorParameterRejectsUnsupportedBaseKey(t *testing.T) {
	p, created := newRegistryPlayer(t, "pitch")

	err := p.SetGeneratorParameter("volume.base", 3)
	if !errors.Is(err, ErrUnsupportedCapability) {
		t.Fatalf("expected ErrUnsupportedCapability, got %v", err)
	}
	if *created != 0 {
		t.Fatalf("expected no generator constructed, got %d", *created)
	}
	if p.Generator("volume") != nil {
		t.Fatalf("expected volume to stay absent")
	}
}

func TestSetGeneratorParameterUsesVariantClassifier(t *testing.T) {
	p, err := New(Variant{
		Name:         "custom",
		Supports:     []BaseKey{"x"},
		Gesture:      &scriptedGesture{},
		NewGenerator: func(base BaseKey) Generator { return &fakeGenerator{base: base} },
		Classify:     func(string) BaseKey { return "x" },
	})
	if err != nil {
		t.Fatalf("expected player, got error %v", err)
	}
	if err := p.SetGeneratorParameter("anything", 1); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Generator("x") == nil {
		t.Fatalf("expected generator under custom base key")
	}
}

type failingGenerator struct{ err error }

func (g failingGenerator) SetParameter(string, float64) error { return g.err }
func (g failingGenerator) Next() float64                      { return 0 }

func TestSetGeneratorParameterPropagatesGeneratorError(t *testing.T) {
	boom := errors.New("bad parameter")
	p, err := New(Variant{
		Name:         "failing",
		Supports:     []BaseKey{"pitch"},
		Gesture:      &scriptedGesture{},
		NewGenerator: func(BaseKey) Generator { return failingGenerator{err: boom} },
	})
	if err != nil {
		t.Fatalf("expected player, got error %v", err)
	}
	if err := p.SetGeneratorParameter("pitch.base", 1); err != boom {
		t.Fatalf("expected generator error unchanged, got %v", err)
	}
}

func TestBaseKeyOf(t *testing.T) {
	testCases := []struct {
		key      string
		expected BaseKey
	}{
		{key: "tempo.base", expected: "tempo"},
		{key: "tempo.accent.max", expected: "tempo"},
		{key: "tempo", expected: "tempo"},
		{key: "", expected: ""},
	}
	for _, testCase := range testCases {
		if got := BaseKeyOf(testCase.key); got != testCase.expected {
			t.Fatalf("%q: expected %q, got %q", testCase.key, testCase.expected, got)
		}
	}
}

func TestCapabilitiesSorted(t *testing.T) {
	p, _ := newRegistryPlayer(t, "velocity", "pitch", "rhythm")
	got := p.Capabilities()
	if len(got) != 3 || got[0] != "pitch" || got[1] != "rhythm" || got[2] != "velocity" {
		t.Fatalf("expected [pitch rhythm velocity], got %v", got)
	}
}
