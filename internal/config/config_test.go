package config

import "testing"

func TestSetWorkersClamps(t *testing.T) {
	prev := GetWorkers()
	defer SetWorkers(prev)

	tests := []struct {
		in, want int
	}{
		{0, 1},
		{-5, 1},
		{4, 4},
		{1000, 256},
	}
	for _, tt := range tests {
		SetWorkers(tt.in)
		if got := GetWorkers(); got != tt.want {
			t.Errorf("SetWorkers(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSetTileSizeClamps(t *testing.T) {
	prev := GetTileSize()
	defer SetTileSize(prev)

	SetTileSize(1)
	if got := GetTileSize(); got != 8 {
		t.Errorf("tile size should clamp up to 8, got %d", got)
	}
	SetTileSize(4096)
	if got := GetTileSize(); got != 512 {
		t.Errorf("tile size should clamp down to 512, got %d", got)
	}
}

func TestEarlyExitToggle(t *testing.T) {
	prev := GetEarlyExit()
	defer SetEarlyExit(prev)

	SetEarlyExit(false)
	if GetEarlyExit() {
		t.Error("early exit should be disabled")
	}
	SetEarlyExit(true)
	if !GetEarlyExit() {
		t.Error("early exit should be enabled")
	}
}
