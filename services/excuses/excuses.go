package excuses

import (
	"Excusas/constants/events"
	models "Excusas/models/postgres"
	"Excusas/services/apperr"
	"Excusas/services/gemini"
	"Excusas/services/store"
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	LeaderboardSize  = 10

	maxExcuseTokens = 200
	minImageLevel   = 2
)

// Broadcaster fans an event out to a room.
type Broadcaster interface {
	Broadcast(roomID, event string, payload any)
}

type Service struct {
	store   *store.Store
	gateway gemini.Gateway
	rooms   Broadcaster
}

func NewService(st *store.Store, gateway gemini.Gateway, rooms Broadcaster) *Service {
	return &Service{store: st, gateway: gateway, rooms: rooms}
}

// GenerateRequest asks for an excuse. AbsurdityLevel is nil when the caller
// did not pick one.
type GenerateRequest struct {
	Situation      string
	AbsurdityLevel *int
	SocialContext  string
	RoomID         string
	PlayerName     string
}

type Metadata struct {
	AbsurdityLevel int       `json:"absurdityLevel"`
	Temperature    float64   `json:"temperature"`
	SocialContext  string    `json:"socialContext"`
	Timestamp      time.Time `json:"timestamp"`
	ID             string    `json:"id"`
}

type GenerateResult struct {
	Excuse   string   `json:"excuse"`
	ImageURL string   `json:"imageUrl"`
	Metadata Metadata `json:"metadata"`
}

// Generate writes an excuse for the situation, illustrates it from level 2
// on, stores it and announces it to the room, if any.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	situation := strings.TrimSpace(req.Situation)
	if situation == "" {
		return nil, apperr.Validation("La situación es requerida")
	}

	level := ClampLevel(req.AbsurdityLevel)
	temperature := Temperature(level)
	socialContext := strings.TrimSpace(req.SocialContext)

	text, err := s.gateway.GenerateText(ctx, gemini.TextRequest{
		Prompt:          excusePrompt(level, situation, socialContext),
		Temperature:     &temperature,
		MaxOutputTokens: maxExcuseTokens,
	})
	if err != nil {
		log.Printf("[EXCUSE-ERROR] Error generating excuse: %v", err)
		return nil, apperr.Gateway("Error al generar la excusa", err)
	}
	text = strings.TrimSpace(text)

	var imageURL string
	if level >= minImageLevel {
		imageURL, err = s.gateway.GenerateImage(ctx, imagePrompt(text, level))
		if err != nil {
			log.Printf("[EXCUSE] No se pudo generar imagen, continuando sin ella: %v", err)
			imageURL = ""
		}
	}

	excuse := &models.Excuse{
		Situation:      situation,
		AbsurdityLevel: level,
		SocialContext:  socialContext,
		Text:           text,
		ImageURL:       imageURL,
		Temperature:    temperature,
		RoomID:         strings.TrimSpace(req.RoomID),
		PlayerName:     strings.TrimSpace(req.PlayerName),
	}
	if err := s.store.CreateExcuse(ctx, excuse); err != nil {
		return nil, err
	}

	if excuse.RoomID != "" {
		s.rooms.Broadcast(excuse.RoomID, events.NewExcuse, map[string]any{
			"_id":            excuse.ID,
			"id":             excuse.ID,
			"excuse":         excuse.Text,
			"absurdityLevel": level,
			"playerName":     excuse.PlayerName,
			"timestamp":      excuse.Timestamp,
			"votes":          0,
			"imageUrl":       excuse.ImageURL,
		})
	}

	if socialContext == "" {
		socialContext = "ninguno"
	}
	return &GenerateResult{
		Excuse:   excuse.Text,
		ImageURL: excuse.ImageURL,
		Metadata: Metadata{
			AbsurdityLevel: level,
			Temperature:    temperature,
			SocialContext:  socialContext,
			Timestamp:      excuse.Timestamp,
			ID:             excuse.ID,
		},
	}, nil
}

// Vote counts voterName's vote once and announces the new count to the
// excuse's room. fallbackRoom is used for excuses created outside a room.
func (s *Service) Vote(ctx context.Context, excuseID, voterName, fallbackRoom string) (*models.Excuse, error) {
	voterName = strings.TrimSpace(voterName)
	if voterName == "" {
		return nil, apperr.Validation("Falta el nombre del jugador")
	}
	if strings.TrimSpace(excuseID) == "" {
		return nil, apperr.Validation("Falta el ID de la excusa")
	}

	excuse, err := s.store.AddVote(ctx, excuseID, voterName)
	if err != nil {
		return nil, err
	}

	room := excuse.RoomID
	if room == "" {
		room = fallbackRoom
	}
	s.rooms.Broadcast(room, events.VoteUpdate, map[string]any{
		"excuseId":    excuse.ID,
		"votes":       excuse.Votes,
		"playerName":  voterName,
		"excuseOwner": excuse.PlayerName,
	})
	log.Printf("[VOTE] %s voted for excuse %s (%d votes)", voterName, excuse.ID, excuse.Votes)
	return excuse, nil
}

// List returns the newest excuses first. A non-positive limit means
// DefaultListLimit.
func (s *Service) List(ctx context.Context, roomID string, limit int) ([]models.Excuse, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)
	return s.store.ListExcuses(ctx, strings.TrimSpace(roomID), limit)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Excuse, error) {
	return s.store.GetExcuse(ctx, id)
}

type Leaderboard struct {
	Players []store.LeaderboardEntry `json:"players"`
	Excuses []models.Excuse          `json:"leaderboard"`
}

// Leaderboard ranks a room's players by total votes, along with its most
// voted excuses.
func (s *Service) Leaderboard(ctx context.Context, roomID string) (*Leaderboard, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, apperr.Validation("Falta el ID de la sala")
	}
	players, err := s.store.Leaderboard(ctx, roomID, LeaderboardSize)
	if err != nil {
		return nil, err
	}
	top, err := s.store.TopExcuses(ctx, roomID, LeaderboardSize)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []store.LeaderboardEntry{}
	}
	return &Leaderboard{Players: players, Excuses: top}, nil
}

const banner = "═══════════════════════════════════════"

// Export renders the excuse as a plain text document and the file name to
// deliver it under.
func (s *Service) Export(ctx context.Context, id string) (string, string, error) {
	excuse, err := s.store.GetExcuse(ctx, id)
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("excusa_%s.txt", excuse.ID), renderExport(excuse), nil
}

func renderExport(e *models.Excuse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n    GENERADOR DE EXCUSAS ABSURDAS\n%s\n\n", banner, banner)
	fmt.Fprintf(&b, "Fecha: %s\n", e.Timestamp.Local().Format("2/1/2006, 15:04:05"))
	fmt.Fprintf(&b, "Jugador: %s\n\n", e.PlayerName)
	fmt.Fprintf(&b, "SITUACIÓN:\n%s\n\n", e.Situation)
	if e.SocialContext != "" {
		fmt.Fprintf(&b, " CONTEXTO SOCIAL:\n%s\n\n", e.SocialContext)
	}
	fmt.Fprintf(&b, "\n💡 EXCUSA GENERADA:\n%s\n\n", e.Text)
	b.WriteString("METADATOS:\n")
	fmt.Fprintf(&b, "• Nivel de Absurdidad: %d/5\n", e.AbsurdityLevel)
	fmt.Fprintf(&b, "• Temperatura IA: %g\n", e.Temperature)
	fmt.Fprintf(&b, "• ID: %s\n", e.ID)
	if e.RoomID != "" {
		fmt.Fprintf(&b, "• Sala Colaborativa: %s\n", e.RoomID)
	}
	fmt.Fprintf(&b, "\n%s\nGenerado con IA - Google Gemini\n", banner)
	return b.String()
}
