package spatialq

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    Config
		wantErr bool
	}{
		{"empty keeps defaults", "", DefaultConfig(), false},
		{
			"predicted",
			"mode: sweep_predicted_position\nprediction_dt: 0.5\nfattening: 0.2\ntolerances:\n  epsilon: 0.001\n  max_iterations: 10\n",
			func() Config {
				c := DefaultConfig()
				c.Mode = ModeSweepPredictedPosition
				c.PredictionDT = 0.5
				c.Fattening = 0.2
				c.Tolerances.Epsilon = 0.001
				c.Tolerances.MaxIterations = 10
				return c
			}(),
			false,
		},
		{"unknown mode", "mode: teleport\n", Config{}, true},
		{"negative fattening", "fattening: -1\n", Config{}, true},
		{"bad dt", "mode: sweep_predicted_position\nprediction_dt: 0\n", Config{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfig([]byte(tt.src))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte("mode: sweep_next_position\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.UpdateMode().Kind != SweepTestWithNextPosition().Kind {
		t.Errorf("UpdateMode = %+v", c.UpdateMode())
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
