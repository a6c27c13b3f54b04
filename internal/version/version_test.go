// ABOUTME: Tests for build identity constants
// ABOUTME: Ensures the identity strings are defined and sane
package version

import "testing"

func TestIdentityConstants(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "Version", value: Version},
		{name: "Product", value: Product},
		{name: "Manufacturer", value: Manufacturer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s is empty", tt.name)
			}
			if len(tt.value) > 100 {
				t.Errorf("%s is unreasonably long: %q", tt.name, tt.value)
			}
		})
	}
}

func TestVersionLooksLikeARelease(t *testing.T) {
	for _, placeholder := range []string{"TODO", "FIXME", "XXX", "placeholder"} {
		if Version == placeholder {
			t.Errorf("Version is the placeholder %q", placeholder)
		}
	}
}
