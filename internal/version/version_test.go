package version

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		version string
		wantErr bool
	}{
		{"2.0.3", false},
		{"2.0.2", false},
		{"v2.7.0", false},
		{"3.0.0-rc.1", false},
		{"", true},
		{"latest", true},
		{"2.0.3/../../evil", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			err := Validate(tt.version)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("Validate(%q) error = %v, want ErrInvalidVersion", tt.version, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate(%q) error = %v", tt.version, err)
			}
		})
	}
}

func TestPinnedIsValid(t *testing.T) {
	if err := Validate(Pinned); err != nil {
		t.Fatalf("default pinned version %q is invalid: %v", Pinned, err)
	}
}
