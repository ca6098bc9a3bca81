package events

// Events consumed from clients.
const (
	JoinRoom           = "join-room"
	LeaveRoom          = "leave-room"
	SendChallenge      = "send-challenge"
	VoteExcuse         = "vote-excuse"
	StartBattle        = "start-battle"
	SubmitBattleExcuse = "submit-battle-excuse"
	Disconnect         = "disconnect"
)

// Events broadcast to rooms.
const (
	PlayerJoined         = "player-joined"
	PlayerLeft           = "player-left"
	NewExcuse            = "new-excuse"
	ChallengeReceived    = "challenge-received"
	VoteUpdate           = "vote-update"
	BattleCreated        = "battle-created"
	BattleExcuseReceived = "battle-excuse-received"
	BattleJudged         = "battle-judged"
)

// Error is emitted to a single client whose event failed.
const Error = "error"
