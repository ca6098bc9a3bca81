package postgres

import (
	"time"
)

/*
 * 'ExcuseVote' records that a voter voted for an excuse. The composite primary
 * key makes a second vote by the same name impossible.
 */
type ExcuseVote struct {
	ExcuseID  string    `gorm:"primaryKey;size:36;not null"`
	VoterName string    `gorm:"primaryKey;size:50;not null"`
	CreatedAt time.Time `gorm:"not null"`
}
