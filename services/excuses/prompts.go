package excuses

import (
	"fmt"
	"strings"
)

func excusePrompt(level int, situation, socialContext string) string {
	p := personaFor(level)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n\n%s\n\n", p.context, p.tone, p.instruction)
	fmt.Fprintf(&b, "Situación: %s\n", situation)
	if socialContext != "" {
		fmt.Fprintf(&b, "Contexto social: %s\n", socialContext)
	}
	b.WriteString("\nGenera SOLO la excusa, sin explicaciones adicionales. Máximo 3-4 oraciones.")
	return b.String()
}

func imagePrompt(excuse string, level int) string {
	return fmt.Sprintf("Create an image: A humorous comic-style illustration of %q. Absurdity level %d/5. Vibrant colors, exaggerated cartoon, funny visual scene.", excuse, level)
}
