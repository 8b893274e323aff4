package commands

import (
	"strings"
	"testing"

	"github.com/uismith/uismith/pkg/session"
)

func TestArtifactFileName(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"openai/gpt-4o", "openai-gpt-4o.html"},
		{"gemini/flash:latest", "gemini-flash-latest.html"},
	}
	for _, tt := range tests {
		if got := artifactFileName(tt.model); got != tt.want {
			t.Errorf("artifactFileName(%q) = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestRenderPage(t *testing.T) {
	page := renderPage("test/ui", &session.Artifact{
		Markup:   "<button>Go</button>",
		Styling:  "button{color:red}",
		Behavior: "console.log(1)",
	})
	for _, want := range []string{
		"<style>\nbutton{color:red}\n</style>",
		"<button>Go</button>",
		"<script>\nconsole.log(1)\n</script>",
		"<title>test/ui</title>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q:\n%s", want, page)
		}
	}
}

func TestRenderPageOmitsEmptyParts(t *testing.T) {
	page := renderPage("test/ui", &session.Artifact{Markup: "<p>only</p>"})
	if strings.Contains(page, "<style>") || strings.Contains(page, "<script>") {
		t.Errorf("empty parts rendered:\n%s", page)
	}
}
