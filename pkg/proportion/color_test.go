package proportion

import (
	"encoding/json"
	"testing"
)

func TestColorRGBA(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{RGB(255, 0, 0), "rgba(255,0,0,1)"},
		{RGB(0, 0, 255).WithAlpha(0.88), "rgba(0,0,255,0.88)"},
		{RGB(0, 0, 255).WithAlpha(0.5), "rgba(0,0,255,0.5)"},
		{RGB(1, 2, 3).WithAlpha(0), "rgba(1,2,3,0)"},
	}
	for _, tt := range tests {
		if got := tt.c.RGBA(); got != tt.want {
			t.Errorf("RGBA() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff0000", RGB(255, 0, 0), false},
		{"#00F", RGB(0, 0, 255), false},
		{"rgb(10, 20, 30)", RGB(10, 20, 30), false},
		{"rgba(0,0,255,0.88)", RGB(0, 0, 255).WithAlpha(0.88), false},
		{"  RGBA(1,2,3,1) ", RGB(1, 2, 3), false},
		{"red", Color{}, true},
		{"#12345", Color{}, true},
		{"rgb(1,2)", Color{}, true},
		{"rgb(300,0,0)", Color{}, true},
		{"rgba(0,0,0,2)", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorBlend(t *testing.T) {
	white := RGB(255, 255, 255)
	if got := RGB(0, 0, 255).Blend(white); got != RGB(0, 0, 255) {
		t.Errorf("opaque blend = %+v", got)
	}
	half := RGB(0, 0, 255).WithAlpha(0.5).Blend(white)
	if half.R != 128 || half.B != 255 {
		t.Errorf("half blend = %+v", half)
	}
}

func TestPaletteJSON(t *testing.T) {
	data, err := json.Marshal(DefaultPalette)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"highlight":"rgba(255,0,0,1)","secondary":"rgba(0,0,255,1)"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var p Palette
	if err := json.Unmarshal([]byte(`{"highlight":"#00ff00","secondary":"rgb(1,1,1)"}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Highlight != RGB(0, 255, 0) || p.Secondary != RGB(1, 1, 1) {
		t.Errorf("Unmarshal = %+v", p)
	}
}

func TestPaletteColorAtRanks(t *testing.T) {
	want := []string{"rgba(255,0,0,1)", "rgba(0,0,255,0.88)", "rgba(0,0,255,0.76)"}
	for rank, w := range want {
		if got := DefaultPalette.ColorAt(rank).RGBA(); got != w {
			t.Errorf("ColorAt(%d) = %s, want %s", rank, got, w)
		}
	}
}
