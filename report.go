package restaurante

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const (
	MarkdownFile = "story_restaurante.md"

	// DefaultPeriod is the sales window the bundled data set covers.
	DefaultPeriod = "2025-01 a 2025-08"

	storyTitle = "🍽️ Se a loja fosse um restaurante…"
)

var narrativeTemplate = template.Must(template.New("story").Funcs(template.FuncMap{
	"brl": FormatBRL,
	"pct": func(v float64) string { return fmt.Sprintf("%.1f", v) },
}).Parse(`{{.Title}}

🍔 Prato do Dia: {{.Story.BestSeller.Name}} — {{.Story.BestSeller.Quantity}} unidades vendidas
👉 O item mais popular do cardápio, presente em muitos pedidos.

🥂 Item Gourmet: {{.Story.Gourmet.Name}} — ticket médio por pedido {{brl .Story.Gourmet.Ticket}}
👉 Aparece menos, mas quando vem, eleva o valor da conta.

🍻 Cliente da Mesa Cativa: {{.Story.LoyalCustomer.Name}} (ID {{.Story.LoyalCustomer.CustomerId}}) — {{.Story.LoyalCustomer.Orders}} pedidos
👉 O cliente fiel, que voltou várias vezes e já é quase de casa.

☕ Clientes de 1 compra só: {{.Story.OneTime.Count}} ({{pct .Story.OneTime.Percent}}%)
👉 A turma que passou para um café, mas não voltou para o almoço.

(Período: {{.Period}} — apenas pedidos "Concluído")
`))

// Narrative renders the story text printed to the terminal.
func Narrative(story *Story, period string) (string, error) {
	if period == "" {
		period = DefaultPeriod
	}
	var buf bytes.Buffer
	err := narrativeTemplate.Execute(&buf, struct {
		Title  string
		Story  *Story
		Period string
	}{storyTitle, story, period})
	if err != nil {
		return "", fmt.Errorf("failed to render narrative: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// WriteMarkdown writes the narrative under a level-1 heading into dir and
// returns the file path.
func WriteMarkdown(dir, narrative string) (string, error) {
	path := filepath.Join(dir, MarkdownFile)
	content := "# " + storyTitle + "\n\n" + narrative + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write markdown: %w", err)
	}
	return path, nil
}
