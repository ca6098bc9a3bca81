package excuses

// Absurdity levels run from -1 (believable) to 5 (cosmic).
const (
	MinLevel     = -1
	MaxLevel     = 5
	DefaultLevel = 2
)

type persona struct {
	context     string
	tone        string
	instruction string
}

var personas = map[int]persona{
	-1: {
		context:     "Eres un asistente que genera excusas extremadamente creíbles y profesionales.",
		tone:        "Tu excusa debe sonar completamente razonable y seria, como si fuera una explicación legítima.",
		instruction: "Genera una excusa breve y realista que cualquier persona creería sin dudar.",
	},
	0: {
		context:     "Eres un generador de excusas cotidianas y comunes.",
		tone:        "La excusa debe ser creíble pero un poco conveniente.",
		instruction: "Crea una excusa normal que la gente usa frecuentemente en la vida diaria.",
	},
	1: {
		context:     "Eres un creador de excusas con un toque de exageración.",
		tone:        "La excusa debe ser algo improbable pero no imposible.",
		instruction: "Inventa una excusa que suene un poco exagerada pero que técnicamente podría suceder.",
	},
	2: {
		context:     "Eres un inventor de excusas bastante absurdas.",
		tone:        "La excusa debe ser claramente inventada y divertida.",
		instruction: "Genera una excusa ridícula e improbable que haga reír por su absurdidad.",
	},
	3: {
		context:     "Eres un maestro de las excusas surrealistas y bizarras.",
		tone:        "La excusa debe incluir elementos completamente absurdos e inesperados.",
		instruction: "Crea una excusa totalmente descabellada con situaciones imposibles pero entretenidas.",
	},
	4: {
		context:     "Eres un generador de excusas de ciencia ficción y fantasía.",
		tone:        "La excusa debe involucrar fenómenos sobrenaturales o tecnológicos imposibles.",
		instruction: "Inventa una excusa que incluya aliens, viajes en el tiempo, magia o tecnología futurista.",
	},
	5: {
		context:     "Eres un creador de excusas cósmicas e interdimensionales.",
		tone:        "La excusa debe trascender la realidad conocida y ser completamente demencial.",
		instruction: "Genera la excusa más absurda, cósmica e imposible que puedas imaginar, involucrando múltiples dimensiones, paradojas temporales y eventos imposibles.",
	},
}

var temperatures = map[int]float64{
	-1: 0.3,
	0:  0.5,
	1:  0.7,
	2:  0.9,
	3:  1.1,
	4:  1.3,
	5:  1.5,
}

// ClampLevel resolves the requested level. A nil level means DefaultLevel.
func ClampLevel(level *int) int {
	if level == nil {
		return DefaultLevel
	}
	return max(MinLevel, min(MaxLevel, *level))
}

// Temperature is the sampling temperature used for level.
func Temperature(level int) float64 {
	if t, ok := temperatures[level]; ok {
		return t
	}
	return 0.9
}

func personaFor(level int) persona {
	if p, ok := personas[level]; ok {
		return p
	}
	return personas[DefaultLevel]
}
