package messages

import (
	"testing"

	"github.com/artefluxo/promptstudio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	h := NewHistory()

	msg := h.AddUser("olá")
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
	assert.Equal(t, models.RoleUser, msg.Role)

	other := h.AddAssistant("oi, como posso ajudar?")
	assert.NotEqual(t, msg.ID, other.ID)
	assert.Equal(t, 2, h.Len())
}

func TestAddSystemCarriesOptionsAndStep(t *testing.T) {
	h := NewHistory()
	step := 3
	msg := h.AddSystem("Qual estilo?", []string{"Minimalista", "Moderno"}, &step)

	got := h.All()[0]
	assert.Equal(t, models.RoleSystem, got.Role)
	assert.Equal(t, []string{"Minimalista", "Moderno"}, got.Options)
	require.NotNil(t, got.QuestionIndex)
	assert.Equal(t, 3, *got.QuestionIndex)
	assert.Equal(t, msg.ID, got.ID)
}

func TestEditByID(t *testing.T) {
	h := NewHistory()
	msg := h.AddAssistant("")

	assert.True(t, h.EditByID(msg.ID, "texto parcial"))
	assert.True(t, h.EditByID(msg.ID, "texto completo"))
	assert.Equal(t, "texto completo", h.All()[0].Content)

	assert.False(t, h.EditByID("missing", "x"))
}

func TestRemoveByContent(t *testing.T) {
	h := NewHistory()
	h.AddUser("primeira")
	h.AddAssistant("Gerando sua imagem...")
	h.AddUser("segunda")

	assert.True(t, h.RemoveByContent("Gerando sua imagem..."))
	assert.False(t, h.RemoveByContent("Gerando sua imagem..."))

	all := h.All()
	require.Len(t, all, 2)
	assert.Equal(t, "primeira", all[0].Content)
	assert.Equal(t, "segunda", all[1].Content)
}

func TestAllReturnsACopy(t *testing.T) {
	h := NewHistory()
	h.AddUser("original")

	all := h.All()
	all[0].Content = "mutated"
	assert.Equal(t, "original", h.All()[0].Content)
}

func TestConversationFiltersAndLimits(t *testing.T) {
	h := NewHistory()
	h.AddSystem("Qual o formato da arte?", []string{"Story"}, nil)
	h.AddUser("m1")
	h.AddAssistant("Gerando sua imagem...")
	h.AddImage("Imagem gerada!", "https://img.example/1.png")
	h.AddAssistant("r1")
	h.AddUser("m2")
	h.AddAssistant("r2")

	conv := h.Conversation(0, "Gerando sua imagem...")
	require.Len(t, conv, 4)
	assert.Equal(t, models.ConversationMessage{Role: "user", Content: "m1"}, conv[0])
	assert.Equal(t, models.ConversationMessage{Role: "assistant", Content: "r1"}, conv[1])

	limited := h.Conversation(2, "Gerando sua imagem...")
	require.Len(t, limited, 2)
	assert.Equal(t, "m2", limited[0].Content)
	assert.Equal(t, "r2", limited[1].Content)
}

func TestFirstAssistant(t *testing.T) {
	h := NewHistory()
	_, ok := h.FirstAssistant()
	assert.False(t, ok)

	h.AddUser("pedido")
	h.AddAssistant("Gerando seu copy...")
	h.AddImage("Imagem gerada!", "https://img.example/1.png")
	h.AddAssistant("Título: oferta imperdível")

	first, ok := h.FirstAssistant("Gerando seu copy...")
	require.True(t, ok)
	assert.Equal(t, "Título: oferta imperdível", first.Content)
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.AddUser("a")
	h.AddAssistant("b")
	h.Clear()
	assert.Zero(t, h.Len())
	assert.Empty(t, h.All())
}
