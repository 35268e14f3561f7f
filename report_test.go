package restaurante_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dadosloja/restaurante"
)

const fixtureNarrative = `🍽️ Se a loja fosse um restaurante…

🍔 Prato do Dia: Refrigerante — 6 unidades vendidas
👉 O item mais popular do cardápio, presente em muitos pedidos.

🥂 Item Gourmet: Vinho Tinto — ticket médio por pedido R$ 120,00
👉 Aparece menos, mas quando vem, eleva o valor da conta.

🍻 Cliente da Mesa Cativa: Ana Souza (ID 1) — 3 pedidos
👉 O cliente fiel, que voltou várias vezes e já é quase de casa.

☕ Clientes de 1 compra só: 2 (50.0%)
👉 A turma que passou para um café, mas não voltou para o almoço.

(Período: 2025-01 a 2025-08 — apenas pedidos "Concluído")`

func TestNarrative(t *testing.T) {
	story, err := restaurante.Compute(loadFixture(t))
	require.NoError(t, err)

	t.Run("default period", func(t *testing.T) {
		got, err := restaurante.Narrative(story, "")
		require.NoError(t, err)
		assert.Equal(t, fixtureNarrative, got)
	})

	t.Run("custom period", func(t *testing.T) {
		got, err := restaurante.Narrative(story, "2024-01 a 2024-12")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(got, `(Período: 2024-01 a 2024-12 — apenas pedidos "Concluído")`))
	})
}

func TestWriteMarkdown(t *testing.T) {
	dir := t.TempDir()

	path, err := restaurante.WriteMarkdown(dir, fixtureNarrative)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, restaurante.MarkdownFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# 🍽️ Se a loja fosse um restaurante…\n\n"+fixtureNarrative+"\n", string(data))
}

func TestWriteMarkdown_MissingDir(t *testing.T) {
	_, err := restaurante.WriteMarkdown(filepath.Join(t.TempDir(), "missing"), fixtureNarrative)
	assert.Error(t, err)
}
