// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Item: {
	name:    string
	count:   int & >=0
	variant?: string
}
`

type testItem struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Variant string `json:"variant,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid data decodes", func(t *testing.T) {
		t.Parallel()
		data := []byte(`name: "widgets", count: 3`)

		result, err := ParseAndDecode[testItem]([]byte(testSchema), data, "#Item")
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if result.Value.Name != "widgets" {
			t.Errorf("Name = %q, want widgets", result.Value.Name)
		}
		if result.Value.Count != 3 {
			t.Errorf("Count = %d, want 3", result.Value.Count)
		}
	})

	t.Run("schema violation is reported with filename", func(t *testing.T) {
		t.Parallel()
		data := []byte(`name: "widgets", count: -1`)

		_, err := ParseAndDecode[testItem]([]byte(testSchema), data, "#Item", WithFilename("items.cue"))
		if err == nil {
			t.Fatal("ParseAndDecode() should reject count < 0")
		}
		if !strings.Contains(err.Error(), "items.cue") {
			t.Errorf("error %q should name the file", err)
		}
	})

	t.Run("syntax error is reported", func(t *testing.T) {
		t.Parallel()
		data := []byte(`name: "unterminated`)

		if _, err := ParseAndDecode[testItem]([]byte(testSchema), data, "#Item"); err == nil {
			t.Fatal("ParseAndDecode() should reject malformed CUE")
		}
	})

	t.Run("unknown schema path is an internal error", func(t *testing.T) {
		t.Parallel()
		data := []byte(`name: "widgets", count: 1`)

		_, err := ParseAndDecode[testItem]([]byte(testSchema), data, "#Nope")
		if err == nil {
			t.Fatal("ParseAndDecode() should fail for an unknown definition")
		}
		if !strings.Contains(err.Error(), "internal error") {
			t.Errorf("error %q should flag an internal error", err)
		}
	})

	t.Run("size limit is enforced", func(t *testing.T) {
		t.Parallel()
		data := []byte(`name: "widgets", count: 1`)

		_, err := ParseAndDecode[testItem]([]byte(testSchema), data, "#Item", WithMaxFileSize(4))
		if err == nil {
			t.Fatal("ParseAndDecode() should enforce the size limit")
		}
		if !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("error %q should mention the size limit", err)
		}
	})

	t.Run("non-concrete mode tolerates unset fields", func(t *testing.T) {
		t.Parallel()
		data := []byte(`name: "widgets", count: 1`)

		result, err := ParseAndDecodeString[testItem](testSchema, data, "#Item", WithConcrete(false))
		if err != nil {
			t.Fatalf("ParseAndDecodeString() error: %v", err)
		}
		if result.Value.Variant != "" {
			t.Errorf("Variant = %q, want empty", result.Value.Variant)
		}
	})
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize([]byte("abc"), 3, "f.cue"); err != nil {
		t.Errorf("CheckFileSize() at the limit should pass: %v", err)
	}
	if err := CheckFileSize([]byte("abcd"), 3, "f.cue"); err == nil {
		t.Error("CheckFileSize() over the limit should fail")
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"simple field", []string{"name"}, "name"},
		{"nested field", []string{"ui", "verbose"}, "ui.verbose"},
		{"array index", []string{"libraries", "0", "name"}, "libraries[0].name"},
		{"nested indices", []string{"libraries", "1", "assets", "2", "path"}, "libraries[1].assets[2].path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
