package templates

import (
	"strings"
	"testing"
)

func TestReadTemplate(t *testing.T) {
	data, err := Read("config.toml")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected template content")
	}
	for _, key := range []string{"search_paths", "default_relocatable", "[cache]", "[tracking]"} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %s in template", key)
		}
	}
}

func TestReadTemplateMissing(t *testing.T) {
	_, err := Read("missing.txt")
	if err == nil {
		t.Fatalf("expected error for missing template")
	}
}
