// Package catalog holds the static prompt catalog for built-in quick
// actions: the label-to-fragment tables used during prompt composition, the
// image dimension and backing model lookups, and the built-in flow
// definitions themselves.
//
// Lookups never fail: unrecognized labels and types fall back to defaults
// via LookupOr, deliberately trading strictness for resilience to future
// catalog additions.
package catalog

import "github.com/artefluxo/promptstudio/internal/models"

// LookupOr returns table[key] when present and non-empty, otherwise def.
// All silent-fallback catalog lookups go through here so the fallback path
// is explicit and testable.
func LookupOr(table map[string]string, key, def string) string {
	if v, ok := table[key]; ok && v != "" {
		return v
	}
	return def
}

// Publication type fragments (Instagram question 1).
var TipoPublicacaoPrompts = map[string]string{
	"Story":         "Instagram Story, vertical 9:16, optimized for mobile viewing",
	"Post no Feed":  "Instagram feed post, square or vertical composition, high quality",
	"Capa de Reels": "Instagram Reels cover, vertical 9:16, eye-catching thumbnail",
	"Anúncio (Ads)": "Instagram advertisement, conversion-focused design",
}

// Layout structure fragments (Instagram question 2).
var EstruturaPrompts = map[string]string{
	"Imagem única":         "single image composition, clear visual hierarchy",
	"Carrossel":            "carousel post, cohesive visual style across slides",
	"Sequência de Stories": "story sequence with visual continuity",
	"Story animado":        "dynamic animated style, motion-friendly design",
}

// Objective fragments (Instagram question 3).
var ObjetivoPrompts = map[string]string{
	"Vender":           "sales-focused, persuasive visual, strong call to action",
	"Engajar":          "engagement-driven, attention-grabbing and relatable",
	"Informar":         "informative layout, clarity and readability prioritized",
	"Fortalecer marca": "brand awareness focused, consistent visual identity",
	"Lançar algo":      "product launch style, sense of novelty and excitement",
}

// Audience fragments (Instagram question 4).
var PublicoPrompts = map[string]string{
	"Jovens":          "targeted to young audience, trendy and energetic style",
	"Adultos":         "targeted to adult audience, balanced and professional",
	"Empresários":     "business-oriented, professional and trustworthy",
	"Público geral":   "broad audience appeal, neutral and accessible",
	"Público premium": "high-end audience, premium and exclusive look",
}

// Visual style fragments (Instagram question 5, shared with TikTok).
var EstiloPrompts = map[string]string{
	"Minimalista": "minimalist design, clean background, few elements",
	"Moderno":     "modern design, contemporary trends",
	"Divertido":   "playful, colorful and fun visual style",
	"Luxuoso":     "luxury aesthetic, elegant details, refined textures",
	"Impactante":  "bold, high-contrast, visually striking",
	"Clean":       "clean layout, soft colors, organized composition",
}

// Focal element fragments (Instagram question 6).
var ElementoPrompts = map[string]string{
	"Produto":      "product-centered composition, product clearly highlighted",
	"Pessoa":       "human-centered composition, expressive person as focal point",
	"Texto":        "text-focused design, typography as main visual element",
	"Marca (logo)": "brand-centered layout, logo prominently displayed",
	"Ambiente":     "environment-focused, contextual background storytelling",
}

// Desired action fragments (Instagram question 7).
var AcaoPrompts = map[string]string{
	"Comprar":         "clear call to action to buy",
	"Clicar":          "clear call to action to click",
	"Enviar mensagem": "clear call to action to send a message",
	"Seguir":          "clear call to action to follow the profile",
	"Apenas absorver": "no explicit call to action, brand impression focused",
}

// TikTok thumbnail objective fragments.
var TikTokObjetivoPrompts = map[string]string{
	"Gerar cliques":      "click-baiting style, curiosity-inducing",
	"Mostrar produto":    "product showcase, clear product visibility",
	"Causar curiosidade": "mysterious, intriguing visual",
}

// NegativePrompt is the fixed quality negative prompt sent alongside image
// generation requests.
const NegativePrompt = "blurry, low quality, distorted, bad typography, unreadable text, watermark, logo artifacts, oversaturated, low contrast, messy layout"

// Named image dimension presets.
var (
	dimensionsInstagramPost  = models.ImageDimensions{Width: 1080, Height: 1080}
	dimensionsInstagramStory = models.ImageDimensions{Width: 1080, Height: 1920}
	dimensionsTikTok         = models.ImageDimensions{Width: 1080, Height: 1920}
	dimensionsDefault        = models.ImageDimensions{Width: 1024, Height: 1024}
)

// GetImageDimensions resolves the target pixel size for an image generation
// request. The Instagram action maps the publication type answer to story or
// post dimensions; the TikTok action uses a fixed vertical thumbnail; any
// unrecognized combination falls back to a square default.
func GetImageDimensions(action models.ActionType, tipoPublicacao string) models.ImageDimensions {
	if action == models.ActionInstagramImage {
		switch tipoPublicacao {
		case "Story", "Capa de Reels":
			return dimensionsInstagramStory
		case "Post no Feed", "Anúncio (Ads)":
			return dimensionsInstagramPost
		}
		return dimensionsDefault
	}
	if action == models.ActionTikTokImage {
		return dimensionsTikTok
	}
	return dimensionsDefault
}

// ActionModels maps built-in image actions to their backing model.
var ActionModels = map[string]string{
	string(models.ActionInstagramImage): "fal-ai/gpt-image-1.5",
	string(models.ActionTikTokImage):    "fal-ai/gpt-image-1.5",
}

// WorkTypeModels maps work types of custom actions to their default backing
// model. An empty value means the work type routes to the text generation
// path instead.
var WorkTypeModels = map[string]string{
	string(models.WorkTypeImageGeneration): "fal-ai/gpt-image-1.5",
	string(models.WorkTypeVideoGeneration): "fal-ai/kling-video/v1/standard/text-to-video",
}

// DescriptionQuestions maps work types to the wording of the trailing
// freeform question appended to every custom flow.
var DescriptionQuestions = map[string]string{
	string(models.WorkTypeImageGeneration): "Descreva detalhes adicionais (cores, contexto, elementos específicos):",
	string(models.WorkTypeCopyWriting):     "Descreva o que você precisa (produto, público-alvo, tom, objetivo):",
	string(models.WorkTypeVideoGeneration): "Descreva detalhes adicionais do vídeo (cenário, ação, duração):",
}

// DefaultDescriptionQuestion is the fallback wording for work types without
// a dedicated entry.
const DefaultDescriptionQuestion = "Descreva detalhes adicionais:"

// DescriptionKey is the response key of the trailing freeform question on
// every flow.
const DescriptionKey = "description"

func choices(labels ...string) []models.Option {
	opts := make([]models.Option, len(labels))
	for i, l := range labels {
		opts[i] = models.Option{Label: l}
	}
	return opts
}

// instagramQuestions is the seven-dimension Instagram flow plus the
// trailing freeform description.
var instagramQuestions = []models.Question{
	{Key: "tipo_publicacao", Question: "Qual o formato da arte?",
		Options: choices("Story", "Post no Feed", "Capa de Reels", "Anúncio (Ads)")},
	{Key: "estrutura", Question: "Como será o layout?",
		Options: choices("Imagem única", "Carrossel", "Sequência de Stories", "Story animado")},
	{Key: "objetivo", Question: "Qual o objetivo da imagem?",
		Options: choices("Vender", "Engajar", "Informar", "Fortalecer marca", "Lançar algo")},
	{Key: "publico", Question: "Para quem é essa arte?",
		Options: choices("Jovens", "Adultos", "Empresários", "Público geral", "Público premium")},
	{Key: "estilo", Question: "Qual estilo melhor representa a arte?",
		Options: choices("Minimalista", "Moderno", "Divertido", "Luxuoso", "Impactante", "Clean")},
	{Key: "elemento", Question: "O que deve ser o foco visual?",
		Options: choices("Produto", "Pessoa", "Texto", "Marca (logo)", "Ambiente")},
	{Key: "acao", Question: "O que o usuário deve fazer após ver a imagem?",
		Options: choices("Comprar", "Clicar", "Enviar mensagem", "Seguir", "Apenas absorver")},
	{Key: DescriptionKey, Question: "Descreva detalhes adicionais da imagem (produto, cores, contexto):"},
}

var tiktokQuestions = []models.Question{
	{Key: "objetivo", Question: "Qual o objetivo da thumbnail?",
		Options: choices("Gerar cliques", "Mostrar produto", "Causar curiosidade")},
	{Key: "estilo", Question: "Qual estilo da thumbnail?",
		Options: choices("Impactante", "Divertido", "Moderno", "Clean")},
	{Key: DescriptionKey, Question: "Descreva como deve ser a thumbnail do vídeo:"},
}

func builtinRef(t models.ActionType) models.FlowRef {
	return models.FlowRef{Kind: models.FlowKindBuiltin, Type: t}
}

// BuiltinDefinitions lists every built-in quick action in display order.
// Non-generation entries exist so the UI can render the full action grid;
// the engine refuses to start them.
var BuiltinDefinitions = []models.FlowDefinition{
	{Ref: builtinRef(models.ActionNewConversation), Label: "Nova Conversa"},
	{
		Ref:               builtinRef(models.ActionInstagramImage),
		Label:             "Imagem Instagram",
		Model:             ActionModels[string(models.ActionInstagramImage)],
		Questions:         instagramQuestions,
		IsImageGeneration: true,
		WorkType:          models.WorkTypeImageGeneration,
	},
	{Ref: builtinRef(models.ActionReels), Label: "Reels"},
	{
		Ref:               builtinRef(models.ActionTikTokImage),
		Label:             "Imagem TikTok",
		Model:             ActionModels[string(models.ActionTikTokImage)],
		Questions:         tiktokQuestions,
		IsImageGeneration: true,
		WorkType:          models.WorkTypeImageGeneration,
	},
	{Ref: builtinRef(models.ActionTikTokVideo), Label: "Vídeo TikTok"},
	{Ref: builtinRef(models.ActionPersonalize), Label: "Personalize"},
}
