package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BattleStatus string

const (
	BattlePending   BattleStatus = "pending"
	BattleActive    BattleStatus = "active"
	BattleCompleted BattleStatus = "completed"
)

// Submission is the snapshot of an excuse taken when a player submits it to a
// battle. Later changes to the excuse (votes) never reach it.
type Submission struct {
	ExcuseID    string     `gorm:"size:36" json:"excuseId,omitempty"`
	Excuse      string     `gorm:"type:text" json:"excuse,omitempty"`
	Situation   string     `gorm:"type:text" json:"situation,omitempty"`
	ImageURL    string     `gorm:"type:text" json:"imageUrl,omitempty"`
	SubmittedAt *time.Time `json:"timestamp,omitempty"`
}

func (s Submission) Filled() bool {
	return s.ExcuseID != ""
}

/*
 * 'Battle' is a head-to-head excuse battle between two players of a room.
 * Version is bumped on every write; writes only succeed against the version
 * they were read at.
 */
type Battle struct {
	ID               string         `gorm:"primaryKey;size:36;not null" json:"id"`
	RoomID           string         `gorm:"size:100;not null;index:idx_battles_room" json:"roomId"`
	Challenger       string         `gorm:"size:50;not null" json:"challenger"`
	Challenged       string         `gorm:"size:50;not null" json:"challenged"`
	Level            int            `gorm:"not null" json:"level"`
	Theme            string         `gorm:"type:text;not null" json:"theme"`
	Status           BattleStatus   `gorm:"size:16;not null;default:'pending'" json:"status"`
	ChallengerExcuse Submission     `gorm:"embedded;embeddedPrefix:challenger_" json:"challengerExcuse"`
	ChallengedExcuse Submission     `gorm:"embedded;embeddedPrefix:challenged_" json:"challengedExcuse"`
	Winner           string         `gorm:"size:50" json:"winner,omitempty"`
	JudgeAnalysis    datatypes.JSON `json:"judgeAnalysis,omitempty"`
	Version          int            `gorm:"not null;default:0" json:"-"`
	CreatedAt        time.Time      `gorm:"not null" json:"createdAt"`
}

func (b *Battle) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = BattlePending
	}
	return nil
}

// IsParticipant reports whether name is the challenger or the challenged.
func (b *Battle) IsParticipant(name string) bool {
	return name == b.Challenger || name == b.Challenged
}

// Opponent returns the other participant of name.
func (b *Battle) Opponent(name string) string {
	if name == b.Challenger {
		return b.Challenged
	}
	return b.Challenger
}

// SlotFor returns the submission slot owned by name, or nil when name is not
// part of the battle.
func (b *Battle) SlotFor(name string) *Submission {
	switch name {
	case b.Challenger:
		return &b.ChallengerExcuse
	case b.Challenged:
		return &b.ChallengedExcuse
	}
	return nil
}

func (b *Battle) BothSubmitted() bool {
	return b.ChallengerExcuse.Filled() && b.ChallengedExcuse.Filled()
}

func (b *Battle) Live() bool {
	return b.Status != BattleCompleted
}
