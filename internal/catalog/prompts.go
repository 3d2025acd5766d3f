// Package catalog prompt composition: turns collected flow responses into
// the final prompt string sent to the generation backends.
package catalog

import (
	"fmt"
	"strings"

	"github.com/artefluxo/promptstudio/internal/models"
)

// Fixed leading and closing sentences of the built-in compositions. Order
// of the appended fragments is significant and fixed.
const (
	instagramLead    = "High quality, professional social media artwork."
	instagramClosing = "Instagram optimized, sharp, high resolution, clean layout, strong composition, modern typography."
	tiktokLead       = "High quality TikTok video thumbnail, vertical 9:16 format."
	tiktokClosing    = "Eye-catching thumbnail, bold colors, high contrast, optimized for mobile viewing."
)

// instagramDimensions pairs each Instagram response key with its fragment
// table, in composition order.
var instagramDimensions = []struct {
	key   string
	table map[string]string
}{
	{"tipo_publicacao", TipoPublicacaoPrompts},
	{"estrutura", EstruturaPrompts},
	{"objetivo", ObjetivoPrompts},
	{"publico", PublicoPrompts},
	{"estilo", EstiloPrompts},
	{"elemento", ElementoPrompts},
	{"acao", AcaoPrompts},
}

// BuildInstagramPrompt composes the Instagram prompt: the fixed lead, one
// fragment per answered dimension (unrecognized labels are skipped
// silently), the user's freeform description under a marker, and the fixed
// closing sentence. Fragments are newline-joined.
func BuildInstagramPrompt(responses map[string]string) string {
	parts := []string{instagramLead}
	for _, dim := range instagramDimensions {
		answer := responses[dim.key]
		if answer == "" {
			continue
		}
		if fragment := LookupOr(dim.table, answer, ""); fragment != "" {
			parts = append(parts, fragment)
		}
	}
	if desc := responses[DescriptionKey]; desc != "" {
		parts = append(parts, "User description: "+desc)
	}
	parts = append(parts, instagramClosing)
	return strings.Join(parts, "\n")
}

// BuildTikTokPrompt composes the TikTok thumbnail prompt: lead, objective
// fragment, shared style fragment, freeform description, closing sentence.
func BuildTikTokPrompt(responses map[string]string) string {
	parts := []string{tiktokLead}
	if answer := responses["objetivo"]; answer != "" {
		if fragment := LookupOr(TikTokObjetivoPrompts, answer, ""); fragment != "" {
			parts = append(parts, fragment)
		}
	}
	if answer := responses["estilo"]; answer != "" {
		if fragment := LookupOr(EstiloPrompts, answer, ""); fragment != "" {
			parts = append(parts, fragment)
		}
	}
	if desc := responses[DescriptionKey]; desc != "" {
		parts = append(parts, "User description: "+desc)
	}
	parts = append(parts, tiktokClosing)
	return strings.Join(parts, "\n")
}

// BuildCustomPrompt composes a custom flow's prompt: for each answered
// question in declared order, the option's prompt fragment when one matches
// the stored answer, otherwise the raw answer, space-joined and prefixed by
// the flow's label. Unanswered questions are skipped silently.
func BuildCustomPrompt(def *models.FlowDefinition, responses map[string]string) string {
	if def == nil {
		return ""
	}
	var parts []string
	for _, q := range def.Questions {
		answer, ok := responses[q.Key]
		if !ok || answer == "" {
			continue
		}
		parts = append(parts, q.PromptFor(answer))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("%s: %s", def.Label, strings.Join(parts, " "))
}

// BuildPrompt is the composition entry point: a pure function of the flow
// ref, its definition, and the collected responses. Built-in actions use
// their dedicated routine; custom flows use the fragment-or-raw
// concatenation; anything else degrades to the freeform description alone.
func BuildPrompt(ref models.FlowRef, def *models.FlowDefinition, responses map[string]string) string {
	if ref.Kind == models.FlowKindCustom {
		return BuildCustomPrompt(def, responses)
	}
	switch ref.Type {
	case models.ActionInstagramImage:
		return BuildInstagramPrompt(responses)
	case models.ActionTikTokImage:
		return BuildTikTokPrompt(responses)
	default:
		return responses[DescriptionKey]
	}
}

// copywriterPersona is the fixed instruction wrapped around the built
// prompt on the copy-writing path.
const copywriterPersona = "Você é um redator publicitário experiente. Crie um copy persuasivo com base no briefing abaixo. " +
	"Estruture a resposta com: um título chamativo, um corpo de texto persuasivo e uma chamada para ação (CTA) clara.\n\nBriefing: %s"

// WrapCopywritingPrompt applies the copywriter persona template to a built
// prompt.
func WrapCopywritingPrompt(prompt string) string {
	return fmt.Sprintf(copywriterPersona, prompt)
}

// copyModificationInstruction frames a modification request around the
// previously generated copy.
const copyModificationInstruction = "Você é um redator publicitário experiente. O texto abaixo foi gerado anteriormente. " +
	"Ajuste-o conforme a solicitação do usuário, mantendo título, corpo e chamada para ação.\n\nTexto original:\n%s"

// BuildCopyModificationInstruction embeds the original generated copy into
// the fixed modification system instruction.
func BuildCopyModificationInstruction(originalCopy string) string {
	return fmt.Sprintf(copyModificationInstruction, originalCopy)
}
