package catalog

import (
	"testing"

	"github.com/artefluxo/promptstudio/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLookupOr(t *testing.T) {
	table := map[string]string{"known": "fragment", "empty": ""}

	tests := []struct {
		name string
		key  string
		def  string
		want string
	}{
		{name: "known key", key: "known", def: "fallback", want: "fragment"},
		{name: "unknown key falls back", key: "missing", def: "fallback", want: "fallback"},
		{name: "empty value falls back", key: "empty", def: "fallback", want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupOr(table, tt.key, tt.def))
		})
	}
}

func TestGetImageDimensions(t *testing.T) {
	tests := []struct {
		name           string
		action         models.ActionType
		tipoPublicacao string
		want           models.ImageDimensions
	}{
		{
			name:           "instagram story",
			action:         models.ActionInstagramImage,
			tipoPublicacao: "Story",
			want:           models.ImageDimensions{Width: 1080, Height: 1920},
		},
		{
			name:           "instagram reels cover",
			action:         models.ActionInstagramImage,
			tipoPublicacao: "Capa de Reels",
			want:           models.ImageDimensions{Width: 1080, Height: 1920},
		},
		{
			name:           "instagram feed post",
			action:         models.ActionInstagramImage,
			tipoPublicacao: "Post no Feed",
			want:           models.ImageDimensions{Width: 1080, Height: 1080},
		},
		{
			name:           "instagram ads",
			action:         models.ActionInstagramImage,
			tipoPublicacao: "Anúncio (Ads)",
			want:           models.ImageDimensions{Width: 1080, Height: 1080},
		},
		{
			name:           "instagram unrecognized publication type",
			action:         models.ActionInstagramImage,
			tipoPublicacao: "Panfleto",
			want:           models.ImageDimensions{Width: 1024, Height: 1024},
		},
		{
			name:   "instagram missing publication type",
			action: models.ActionInstagramImage,
			want:   models.ImageDimensions{Width: 1024, Height: 1024},
		},
		{
			name:   "tiktok thumbnail is always vertical",
			action: models.ActionTikTokImage,
			want:   models.ImageDimensions{Width: 1080, Height: 1920},
		},
		{
			name:   "unknown action defaults to square",
			action: models.ActionType("billboard"),
			want:   models.ImageDimensions{Width: 1024, Height: 1024},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetImageDimensions(tt.action, tt.tipoPublicacao))
		})
	}
}

func TestBuiltinDefinitions(t *testing.T) {
	byType := make(map[models.ActionType]models.FlowDefinition)
	for _, def := range BuiltinDefinitions {
		byType[def.Ref.Type] = def
	}

	instagram := byType[models.ActionInstagramImage]
	assert.True(t, instagram.IsImageGeneration)
	assert.Len(t, instagram.Questions, 8)
	assert.Equal(t, DescriptionKey, instagram.Questions[len(instagram.Questions)-1].Key)
	assert.Empty(t, instagram.Questions[len(instagram.Questions)-1].Options, "description question must be freeform")

	tiktok := byType[models.ActionTikTokImage]
	assert.True(t, tiktok.IsImageGeneration)
	assert.Len(t, tiktok.Questions, 3)

	assert.False(t, byType[models.ActionNewConversation].IsImageGeneration)
	assert.False(t, byType[models.ActionReels].IsImageGeneration)
}

func TestInstagramQuestionOptionsMatchCatalogTables(t *testing.T) {
	var instagram models.FlowDefinition
	for _, def := range BuiltinDefinitions {
		if def.Ref.Type == models.ActionInstagramImage {
			instagram = def
		}
	}

	tables := map[string]map[string]string{
		"tipo_publicacao": TipoPublicacaoPrompts,
		"estrutura":       EstruturaPrompts,
		"objetivo":        ObjetivoPrompts,
		"publico":         PublicoPrompts,
		"estilo":          EstiloPrompts,
		"elemento":        ElementoPrompts,
		"acao":            AcaoPrompts,
	}

	for _, q := range instagram.Questions {
		table, ok := tables[q.Key]
		if !ok {
			continue
		}
		for _, opt := range q.Options {
			assert.NotEmpty(t, table[opt.Label], "question %q option %q has no catalog fragment", q.Key, opt.Label)
		}
	}
}
