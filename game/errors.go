package game

type GameError struct {
	Code string
	Msg  string
}

func (e *GameError) ErrorCode() string { return e.Code }
func (e *GameError) Error() string     { return e.Msg }

var (
	// ErrPlayerExists means a player with the same name already is
	ErrPlayerExists = &GameError{"PLAYEREXISTS", "player exists"}
	// ErrGameFull means the table is at seven players
	ErrGameFull = &GameError{"GAMEFULL", "game is full"}
	// ErrNotEnoughPlayers means can't start with fewer than two players
	ErrNotEnoughPlayers = &GameError{"NOTENOUGHPLAYERS", "need at least two players"}
	// ErrAlreadyStarted is only when calling Start() too much
	ErrAlreadyStarted = &GameError{"ALREADYSTARTED", "game has already started"}

	// ErrMatchNotActive means there is no game in progress to play in
	ErrMatchNotActive = &GameError{"MATCHNOTACTIVE", "no game in progress"}
	// ErrNotYourTurn means you can't do something while it's not your turn
	ErrNotYourTurn = &GameError{"NOTYOURTURN", "it's not your turn"}
	// ErrInvalidState means a roll was asked for when one is not possible
	ErrInvalidState = &GameError{"INVALIDSTATE", "you cannot roll now"}
	// ErrFaceCommitted means that face was already taken this turn
	ErrFaceCommitted = &GameError{"FACECOMMITTED", "face already taken this turn"}
	// ErrFaceNotRolled means that face is not in the last roll
	ErrFaceNotRolled = &GameError{"FACENOTROLLED", "face not in this roll"}
	// ErrIllegalClaim means a named tile that the rules don't allow
	ErrIllegalClaim = &GameError{"ILLEGALCLAIM", "that tile cannot be claimed"}
	// ErrStaleCommand means the command carried an old sequence number
	ErrStaleCommand = &GameError{"STALECOMMAND", "command is out of date"}
	// ErrNotNow is for maybe valid moves that are not allowed now
	ErrNotNow = &GameError{"NOTNOW", "you cannot do that now"}
	// ErrBadRequest is for bad requests
	ErrBadRequest = &GameError{"BADREQUEST", "bad request"}
)
