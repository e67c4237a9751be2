package game

import "errors"

var (
	ErrInvalidPlayerCount   = errors.New("player count must be between 3 and 7")
	ErrNotEnoughWonders     = errors.New("not enough wonders for every player")
	ErrAlreadyBuilt         = errors.New("a card with this name is already built")
	ErrNotBuildable         = errors.New("card is not buildable")
	ErrInsufficientCoins    = errors.New("not enough coins")
	ErrCardNotInHand        = errors.New("card not in hand")
	ErrWonderComplete       = errors.New("wonder is complete")
	ErrStepNotBuildable     = errors.New("wonder step is not buildable")
	ErrUnknownPlayer        = errors.New("unknown player")
	ErrNotAvailableForTrade = errors.New("neighbor cannot supply these resources")
	ErrNotTradeable         = errors.New("resource cannot be traded")
	ErrGameNotStarted       = errors.New("game has not started")
	ErrGameStarted          = errors.New("game has already started")
	ErrGameFinished         = errors.New("game is finished")
	ErrAlreadyPlayed        = errors.New("player already played this round")
	ErrAwaitingPlayer       = errors.New("waiting for a player without policy")
	ErrNoPendingChoice      = errors.New("no pending choice for this player")
	ErrNotInDiscard         = errors.New("card not in discard pile")
	ErrGuildUnavailable     = errors.New("guild cannot be copied")
)
