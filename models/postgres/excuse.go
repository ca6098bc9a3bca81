package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const AnonymousPlayer = "Anónimo"

/*
 * 'Excuse' is a generated excuse. It is created once, when generation succeeds,
 * and afterwards only its vote count changes. Voters live in ExcuseVote.
 */
type Excuse struct {
	ID             string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Situation      string    `gorm:"type:text;not null" json:"situation"`
	AbsurdityLevel int       `gorm:"not null;default:2" json:"absurdityLevel"`
	SocialContext  string    `gorm:"type:text" json:"socialContext"`
	Text           string    `gorm:"column:excuse;type:text;not null" json:"excuse"`
	ImageURL       string    `gorm:"type:text" json:"imageUrl,omitempty"`
	Temperature    float64   `gorm:"not null" json:"temperature"`
	RoomID         string    `gorm:"size:100;index:idx_excuses_room" json:"roomId,omitempty"`
	PlayerName     string    `gorm:"size:50;not null;default:'Anónimo'" json:"playerName"`
	Timestamp      time.Time `gorm:"not null;index:idx_excuses_timestamp" json:"timestamp"`
	Votes          int       `gorm:"not null;default:0" json:"votes"`

	// Relationships
	Voters []ExcuseVote `gorm:"foreignKey:ExcuseID;constraint:OnDelete:CASCADE;" json:"-"`

	VotedBy []string `gorm:"-" json:"votedBy"`
}

func (e *Excuse) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.PlayerName == "" {
		e.PlayerName = AnonymousPlayer
	}
	return nil
}

// FillVotedBy copies the preloaded voters into VotedBy.
func (e *Excuse) FillVotedBy() {
	e.VotedBy = make([]string, 0, len(e.Voters))
	for _, v := range e.Voters {
		e.VotedBy = append(e.VotedBy, v.VoterName)
	}
}

// HasVoter reports whether name already voted for the excuse.
func (e *Excuse) HasVoter(name string) bool {
	for _, v := range e.VotedBy {
		if v == name {
			return true
		}
	}
	return false
}
