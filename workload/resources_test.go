package workload

import "testing"

func TestParseMemory(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"512m", 512 * 1024 * 1024, false},
		{"2g", 2 * 1024 * 1024 * 1024, false},
		{"1Gi", 1024 * 1024 * 1024, false},
		{"1024", 1024, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMemory(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMemory(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMemory(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseCPU(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"0.5", 500_000_000, false},
		{"500m", 500_000_000, false},
		{"2", 2_000_000_000, false},
		{"", 0, true},
		{"lots", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCPU(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCPU(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCPU(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
