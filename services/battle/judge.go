package battle

import (
	models "Excusas/models/postgres"
	"Excusas/services/gemini"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	judgeTemperature = 0.3
	judgeMaxTokens   = 1000

	judgeFailedMessage = "Error en el juicio"
)

// Scores are the judge's marks for one participant, each in [0,10].
type Scores struct {
	ThemeRelevance *float64 `json:"themeRelevance" validate:"required,gte=0,lte=10"`
	Absurdity      *float64 `json:"absurdity" validate:"required,gte=0,lte=10"`
	Creativity     *float64 `json:"creativity" validate:"required,gte=0,lte=10"`
	Coherence      *float64 `json:"coherence" validate:"required,gte=0,lte=10"`
}

// Analysis is the stored verdict of a battle. Fallback verdicts carry only
// the winner and the error.
type Analysis struct {
	Winner   string            `json:"winner" validate:"required"`
	Reason   string            `json:"reason,omitempty" validate:"required"`
	Scores   map[string]Scores `json:"scores,omitempty" validate:"required,len=2,dive"`
	Fallback bool              `json:"fallback,omitempty"`
	Error    string            `json:"error,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var errNoVerdict = errors.New("no valid verdict in judge response")

func judgePrompt(b *models.Battle) string {
	var sb strings.Builder
	sb.WriteString("Eres un juez experto en excusas absurdas. Debes analizar estas dos excusas y determinar cuál es MÁS ABSURDA y CREATIVA.\n\n")
	fmt.Fprintf(&sb, "BATALLA DE NIVEL %d/5\nTEMA DE LA BATALLA: %q\n\n", b.Level, b.Theme)
	for _, p := range []struct {
		name string
		sub  models.Submission
	}{{b.Challenger, b.ChallengerExcuse}, {b.Challenged, b.ChallengedExcuse}} {
		fmt.Fprintf(&sb, "Participante: %s\nSituación que excusó: %q\nExcusa generada: %q\n\n", p.name, p.sub.Situation, p.sub.Excuse)
	}
	sb.WriteString("Analiza cada participante considerando:\n")
	sb.WriteString("1. ¿Qué tan relacionada está su situación con el tema de la batalla?\n")
	sb.WriteString("2. ¿Qué tan absurda y creativa es la excusa generada? (0-10)\n")
	sb.WriteString("3. ¿Qué tan coherente es la excusa con la situación que escribió? (0-10)\n")
	sb.WriteString("4. Factor sorpresa e imaginación (0-10)\n")
	fmt.Fprintf(&sb, "5. Adaptación al nivel de absurdidad requerido (%d/5)\n\n", b.Level)
	sb.WriteString("Responde en formato JSON:\n{\n")
	fmt.Fprintf(&sb, "  \"winner\": %q o %q,\n", b.Challenger, b.Challenged)
	sb.WriteString("  \"reason\": \"explicación detallada de por qué ganó, mencionando tanto la situación que escribió como la excusa generada (máximo 150 palabras)\",\n")
	sb.WriteString("  \"scores\": {\n")
	for i, name := range []string{b.Challenger, b.Challenged} {
		fmt.Fprintf(&sb, "    %q: { \"themeRelevance\": 0-10, \"absurdity\": 0-10, \"creativity\": 0-10, \"coherence\": 0-10 }", name)
		if i == 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  }\n}")
	return sb.String()
}

// parseVerdict finds the first JSON object in text that is a valid verdict
// for the two participants. Prose and code fences around it are ignored.
func parseVerdict(text, challenger, challenged string) (*Analysis, error) {
	for i := strings.IndexByte(text, '{'); i >= 0; {
		var a Analysis
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		if err := dec.Decode(&a); err == nil {
			if err := checkVerdict(&a, challenger, challenged); err == nil {
				a.Fallback = false
				a.Error = ""
				return &a, nil
			}
		}
		next := strings.IndexByte(text[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, errNoVerdict
}

func checkVerdict(a *Analysis, challenger, challenged string) error {
	if err := validate.Struct(a); err != nil {
		return err
	}
	if a.Winner != challenger && a.Winner != challenged {
		return fmt.Errorf("winner %q is not a participant", a.Winner)
	}
	for _, name := range []string{challenger, challenged} {
		if _, ok := a.Scores[name]; !ok {
			return fmt.Errorf("missing scores for %q", name)
		}
	}
	return nil
}

// judge asks the gateway for a verdict. When the call or the verdict fails a
// participant is picked at random and the analysis is marked as fallback.
func (o *Orchestrator) judge(ctx context.Context, b *models.Battle) *Analysis {
	temperature := judgeTemperature
	text, err := o.gateway.GenerateText(ctx, gemini.TextRequest{
		Prompt:          judgePrompt(b),
		Temperature:     &temperature,
		MaxOutputTokens: judgeMaxTokens,
	})
	if err == nil {
		var verdict *Analysis
		if verdict, err = parseVerdict(text, b.Challenger, b.Challenged); err == nil {
			return verdict
		}
	}
	log.Printf("[BATTLE-ERROR] Error judging battle %s: %v", b.ID, err)

	winner := b.Challenger
	if o.intN(2) == 1 {
		winner = b.Challenged
	}
	return &Analysis{Winner: winner, Fallback: true, Error: judgeFailedMessage}
}
