package store

import (
	models "Excusas/models/postgres"
	"Excusas/services/apperr"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrStaleBattle marks a SaveBattle that lost to a concurrent writer.
var ErrStaleBattle = errors.New("stale battle version")

// Store is the durable record of excuses and battles.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LeaderboardEntry aggregates the votes of a player's excuses in a room.
type LeaderboardEntry struct {
	PlayerName string `json:"playerName"`
	TotalVotes int    `json:"totalVotes"`
	Excuses    int    `json:"excuses"`
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

func (s *Store) CreateExcuse(ctx context.Context, excuse *models.Excuse) error {
	if err := s.db.WithContext(ctx).Create(excuse).Error; err != nil {
		log.Printf("[STORE-ERROR] Error creating excuse: %v", err)
		return apperr.Persistence("Error al guardar la excusa", err)
	}
	excuse.FillVotedBy()
	return nil
}

// GetExcuse returns the excuse with its voters.
func (s *Store) GetExcuse(ctx context.Context, id string) (*models.Excuse, error) {
	return getExcuse(s.db.WithContext(ctx), id)
}

func getExcuse(db *gorm.DB, id string) (*models.Excuse, error) {
	var excuse models.Excuse
	err := db.Preload("Voters", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ?", id).First(&excuse).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Excusa no encontrada")
	}
	if err != nil {
		return nil, apperr.Persistence("Error al obtener la excusa", err)
	}
	excuse.FillVotedBy()
	return &excuse, nil
}

// ListExcuses returns the newest excuses first, optionally only those of
// roomID.
func (s *Store) ListExcuses(ctx context.Context, roomID string, limit int) ([]models.Excuse, error) {
	q := s.db.WithContext(ctx).Preload("Voters").Order("timestamp DESC").Limit(limit)
	if roomID != "" {
		q = q.Where("room_id = ?", roomID)
	}
	var excuses []models.Excuse
	if err := q.Find(&excuses).Error; err != nil {
		return nil, apperr.Persistence("Error al obtener el historial", err)
	}
	for i := range excuses {
		excuses[i].FillVotedBy()
	}
	return excuses, nil
}

// TopExcuses returns the most voted excuses of a room.
func (s *Store) TopExcuses(ctx context.Context, roomID string, limit int) ([]models.Excuse, error) {
	var excuses []models.Excuse
	err := s.db.WithContext(ctx).Preload("Voters").
		Where("room_id = ?", roomID).
		Order("votes DESC").Order("timestamp ASC").
		Limit(limit).
		Find(&excuses).Error
	if err != nil {
		return nil, apperr.Persistence("Error al obtener el leaderboard", err)
	}
	for i := range excuses {
		excuses[i].FillVotedBy()
	}
	return excuses, nil
}

// Leaderboard ranks the players of a room by the votes their excuses got.
func (s *Store) Leaderboard(ctx context.Context, roomID string, limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := s.db.WithContext(ctx).Model(&models.Excuse{}).
		Select("player_name, SUM(votes) AS total_votes, COUNT(*) AS excuses").
		Where("room_id = ?", roomID).
		Group("player_name").
		Order("total_votes DESC").Order("player_name ASC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, apperr.Persistence("Error al obtener el leaderboard", err)
	}
	return entries, nil
}

// AddVote records voterName's vote and increments the count in a single
// transaction. A voter is counted at most once per excuse.
func (s *Store) AddVote(ctx context.Context, excuseID, voterName string) (*models.Excuse, error) {
	var updated *models.Excuse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		excuse, err := getExcuse(tx, excuseID)
		if err != nil {
			return err
		}
		if excuse.HasVoter(voterName) {
			return apperr.DuplicateVote("Ya votaste por esta excusa")
		}

		vote := models.ExcuseVote{ExcuseID: excuseID, VoterName: voterName, CreatedAt: time.Now()}
		if err := tx.Create(&vote).Error; err != nil {
			if isDuplicateKey(err) {
				return apperr.DuplicateVote("Ya votaste por esta excusa")
			}
			return apperr.Persistence("Error al votar", err)
		}
		res := tx.Model(&models.Excuse{}).Where("id = ?", excuseID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1))
		if res.Error != nil {
			return apperr.Persistence("Error al votar", res.Error)
		}

		updated, err = getExcuse(tx, excuseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) CreateBattle(ctx context.Context, battle *models.Battle) error {
	if err := s.db.WithContext(ctx).Create(battle).Error; err != nil {
		log.Printf("[STORE-ERROR] Error creating battle: %v", err)
		return apperr.Persistence("Error al iniciar batalla", err)
	}
	return nil
}

func (s *Store) GetBattle(ctx context.Context, id string) (*models.Battle, error) {
	var battle models.Battle
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&battle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Batalla no encontrada")
	}
	if err != nil {
		return nil, apperr.Persistence("Error al obtener la batalla", err)
	}
	return &battle, nil
}

// SaveBattle writes battle only if the stored version still equals
// battle.Version, then bumps it. A concurrent writer makes it fail with a
// conflict instead of losing either update.
func (s *Store) SaveBattle(ctx context.Context, battle *models.Battle) error {
	res := s.db.WithContext(ctx).Model(&models.Battle{}).
		Where("id = ? AND version = ?", battle.ID, battle.Version).
		Updates(battleColumns(battle, battle.Version+1))
	if res.Error != nil {
		log.Printf("[STORE-ERROR] Error saving battle %s: %v", battle.ID, res.Error)
		return apperr.Persistence("Error al guardar la batalla", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperr.Error{
			Kind:    apperr.ErrConflict,
			Message: fmt.Sprintf("La batalla %s cambió mientras se actualizaba", battle.ID),
			Err:     ErrStaleBattle,
		}
	}
	battle.Version++
	return nil
}

func battleColumns(b *models.Battle, version int) map[string]any {
	cols := map[string]any{
		"status":         b.Status,
		"winner":         b.Winner,
		"judge_analysis": b.JudgeAnalysis,
		"version":        version,
	}
	for prefix, slot := range map[string]models.Submission{
		"challenger_": b.ChallengerExcuse,
		"challenged_": b.ChallengedExcuse,
	} {
		cols[prefix+"excuse_id"] = slot.ExcuseID
		cols[prefix+"excuse"] = slot.Excuse
		cols[prefix+"situation"] = slot.Situation
		cols[prefix+"image_url"] = slot.ImageURL
		cols[prefix+"submitted_at"] = slot.SubmittedAt
	}
	return cols
}
