package errors

import "testing"

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "sunset study", false},
		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"double slash", "a//b", true},
		{"backslash", "a\\b", true},
		{"control character", "bad\x01name", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"short form", "#fff", false},
		{"full form", "#1a2b3c", false},
		{"with alpha", "#1a2b3c02", false},
		{"uppercase", "#AABBCC", false},
		{"missing hash", "aabbcc", true},
		{"wrong length", "#abcd", true},
		{"non-hex", "#zzzzzz", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePaletteName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "warm", false},
		{"with hyphen", "pastel-dusk", false},
		{"with digits", "set12", false},
		{"uppercase rejected", "Warm", true},
		{"leading digit rejected", "1warm", true},
		{"spaces rejected", "warm dusk", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaletteName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaletteName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && tt.input != "" && GetCode(err) != ErrCodeInvalidPalette && GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("unexpected code %q", GetCode(err))
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	if err := ValidateOutputPath("out/painting.png"); err != nil {
		t.Errorf("relative path should be valid: %v", err)
	}
	if err := ValidateOutputPath("/tmp/painting.png"); err != nil {
		t.Errorf("absolute output path should be valid: %v", err)
	}
	if err := ValidateOutputPath(""); err == nil {
		t.Error("empty path should be invalid")
	}
	if err := ValidateOutputPath("bad\x00path"); err == nil {
		t.Error("null byte should be invalid")
	}
}
