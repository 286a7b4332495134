package sanitize

import (
	"strings"
	"testing"
)

func TestHTMLRemovesScripts(t *testing.T) {
	out := HTML(`<p class="lead">Hola <strong>mundo</strong></p><script>alert(1)</script>`)
	if strings.Contains(out, "script") {
		t.Fatalf("script survived: %s", out)
	}
	if !strings.Contains(out, `<p class="lead">`) || !strings.Contains(out, "<strong>mundo</strong>") {
		t.Fatalf("formatting lost: %s", out)
	}
}

func TestHTMLDropsEventHandlers(t *testing.T) {
	out := HTML(`<img src="https://cdn.example.com/a.png" onerror="steal()">`)
	if strings.Contains(out, "onerror") {
		t.Fatalf("event handler survived: %s", out)
	}
}

func TestTextStripsMarkup(t *testing.T) {
	if got := Text("  <b>ACME</b> Corp "); got != "ACME Corp" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTextKeepsPlainCharacters(t *testing.T) {
	if got := Text("O'Brien & Sons <i>S.A.</i>"); got != "O'Brien & Sons S.A." {
		t.Fatalf("unexpected %q", got)
	}
}
