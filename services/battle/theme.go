package battle

import (
	"Excusas/services/gemini"
	"context"
	"fmt"
	"log"
	"strings"
)

const themeTemplate = `Genera UNA SOLA situación absurda para una batalla de excusas. Nivel de absurdidad: %[1]d/5.

La situación debe ser:
- Una frase corta (máximo 15 palabras)
- En español
- Problemática que requiera una excusa
- Adecuada al nivel de absurdidad %[1]d

Ejemplos según nivel:
Nivel 0-1: "Llegaste 2 horas tarde a una reunión importante"
Nivel 2-3: "Tu carro apareció en el techo del edificio"
Nivel 4-5: "Despertaste en Marte sin saber cómo llegaste ahí"

Responde SOLO con la situación, sin explicaciones.`

var quoteStripper = strings.NewReplacer(`"`, "", "'", "", "“", "", "”", "", "«", "", "»", "")

func fallbackTheme(level int) string {
	return fmt.Sprintf("Llegaste tarde a un evento importante (nivel %d)", level)
}

// generateTheme asks for a battle situation. It never fails: any problem
// yields the fallback theme.
func generateTheme(ctx context.Context, gateway gemini.Gateway, level int) string {
	text, err := gateway.GenerateText(ctx, gemini.TextRequest{Prompt: fmt.Sprintf(themeTemplate, level)})
	if err != nil {
		log.Printf("[BATTLE-ERROR] Error generating theme: %v", err)
		return fallbackTheme(level)
	}
	theme := strings.TrimSpace(quoteStripper.Replace(text))
	if theme == "" {
		return fallbackTheme(level)
	}
	return theme
}
