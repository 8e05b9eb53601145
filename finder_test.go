package newslink

import (
	"strings"
	"testing"

	"github.com/zombar/newslink/htmldoc"
)

func mustParse(t *testing.T, page, baseURL string) htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.Parse(strings.NewReader(page), baseURL)
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}
	return doc
}

func TestFindFooterBeatsPageWideStrategies(t *testing.T) {
	// Cascade ordering: the footer "Notícias" anchor must win even though
	// a page-wide "Mais Notícias" anchor exists for level 3.
	page := `<!DOCTYPE html>
<html>
<body>
	<main>
		<a href="https://www.gov.br/agencia/pt-br/mais-noticias">Mais Notícias</a>
	</main>
	<div class="footer-wrapper">
		<a href="https://www.gov.br/agencia/pt-br/assuntos/noticias">Notícias</a>
	</div>
</body>
</html>`

	finder := New(DefaultConfig())
	url, ok := finder.Find(mustParse(t, page, "https://www.gov.br/agencia/pt-br"))

	if !ok {
		t.Fatal("Expected a news link to be found")
	}
	if url != "https://www.gov.br/agencia/pt-br/assuntos/noticias" {
		t.Errorf("Expected footer link to win, got %s", url)
	}
}

func TestFindDeterminism(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<body>
	<div class="footer-wrapper">
		<a href="https://www.gov.br/agencia/pt-br/noticias-a">Notícias</a>
		<a href="https://www.gov.br/agencia/pt-br/noticias-b">Notícias</a>
	</div>
</body>
</html>`

	finder := New(DefaultConfig())

	first, ok := finder.Find(mustParse(t, page, "https://www.gov.br/agencia/pt-br"))
	if !ok {
		t.Fatal("Expected a news link to be found")
	}

	for i := 0; i < 20; i++ {
		url, ok := finder.Find(mustParse(t, page, "https://www.gov.br/agencia/pt-br"))
		if !ok || url != first {
			t.Fatalf("Run %d: got (%q, %v), expected (%q, true)", i, url, ok, first)
		}
	}
}

func TestFindFooterElementScope(t *testing.T) {
	// gov.br themes without the footer-wrapper div still mark the region
	// with a bare <footer> element.
	page := `<!DOCTYPE html>
<html>
<body>
	<footer>
		<a href="https://www.gov.br/agencia/pt-br/assuntos/noticias">Notícias</a>
	</footer>
</body>
</html>`

	finder := New(DefaultConfig())
	url, ok := finder.Find(mustParse(t, page, "https://www.gov.br/agencia/pt-br"))

	if !ok || url != "https://www.gov.br/agencia/pt-br/assuntos/noticias" {
		t.Errorf("Expected footer element link, got (%q, %v)", url, ok)
	}
}

func TestFindLatestBeatsMore(t *testing.T) {
	// Level 2 ("Últimas Notícias") runs before level 3 ("Mais Notícias").
	page := `<!DOCTYPE html>
<html>
<body>
	<a href="https://www.gov.br/agencia/pt-br/mais">Mais Notícias</a>
	<a href="https://www.gov.br/agencia/pt-br/ultimas">Últimas Notícias</a>
</body>
</html>`

	finder := New(DefaultConfig())
	url, ok := finder.Find(mustParse(t, page, "https://www.gov.br/agencia/pt-br"))

	if !ok || url != "https://www.gov.br/agencia/pt-br/ultimas" {
		t.Errorf("Expected the Últimas Notícias link, got (%q, %v)", url, ok)
	}
}

func TestFindFilterOnlyAtLevelFour(t *testing.T) {
	campaignURL := "https://www.gov.br/agencia/pt-br/campanha/noticias"

	t.Run("level 2 never filters", func(t *testing.T) {
		page := `<!DOCTYPE html>
<html>
<body>
	<a href="` + campaignURL + `">Últimas Notícias</a>
</body>
</html>`

		finder := New(DefaultConfig())
		url, ok := finder.Find(mustParse(t, page, "https://www.gov.br/agencia/pt-br"))

		if !ok || url != campaignURL {
			t.Errorf("Expected campaign URL via level 2, got (%q, %v)", url, ok)
		}
	})

	t.Run("level 4 filters the same URL", func(t *testing.T) {
		page := `<!DOCTYPE html>
<html>
<body>
	<a href="` + campaignURL + `">Notícias</a>
</body>
</html>`

		finder := New(DefaultConfig())
		url, ok := finder.Find(mustParse(t, page, "https://www.gov.br/agencia/pt-br"))

		if ok {
			t.Errorf("Expected no link when the only level-4 candidate is deny-listed, got %q", url)
		}
	})
}

func TestFindGenericLevelScoring(t *testing.T) {
	// Two same-tier candidates at level 4: the comunicacao path wins.
	page := `<!DOCTYPE html>
<html>
<body>
	<a href="https://www.gov.br/agencia/pt-br/assuntos/noticias-e-eventos">Principais Notícias</a>
	<a href="https://www.gov.br/agencia/pt-br/comunicacao/noticias">Acesse Notícias</a>
</body>
</html>`

	finder := New(DefaultConfig())
	url, ok := finder.Find(mustParse(t, page, "https://www.gov.br/agencia/pt-br"))

	if !ok || url != "https://www.gov.br/agencia/pt-br/comunicacao/noticias" {
		t.Errorf("Expected the comunicacao link to win, got (%q, %v)", url, ok)
	}
}

func TestFindRelativeHrefResolved(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<body>
	<div class="footer-wrapper">
		<a href="/agencia/pt-br/assuntos/noticias">Notícias</a>
	</div>
</body>
</html>`

	finder := New(DefaultConfig())
	url, ok := finder.Find(mustParse(t, page, "https://www.gov.br"))

	if !ok || url != "https://www.gov.br/agencia/pt-br/assuntos/noticias" {
		t.Errorf("Expected resolved absolute URL, got (%q, %v)", url, ok)
	}
}

func TestFindNothing(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{
			name: "no anchors at all",
			page: `<!DOCTYPE html><html><body><p>Sem links</p></body></html>`,
		},
		{
			name: "anchors without matching labels",
			page: `<!DOCTYPE html>
<html>
<body>
	<a href="https://www.gov.br/agencia/pt-br/servicos">Serviços</a>
	<a href="https://www.gov.br/agencia/pt-br/contato">Fale Conosco</a>
</body>
</html>`,
		},
		{
			name: "matching label without usable href",
			page: `<!DOCTYPE html>
<html>
<body>
	<a href="mailto:imprensa@gov.br">Notícias</a>
</body>
</html>`,
		},
	}

	finder := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, ok := finder.Find(mustParse(t, tt.page, "https://www.gov.br/agencia/pt-br"))
			if ok {
				t.Errorf("Expected no link, got %q", url)
			}
		})
	}
}
