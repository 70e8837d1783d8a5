package service

import "errors"

var (
	// ErrNoAudio reports playback requested on a verse without a resolved audio URL.
	ErrNoAudio = errors.New("verse has no audio")
	// ErrNoChapter reports a playback operation while no chapter is loaded.
	ErrNoChapter = errors.New("no chapter loaded")
	// ErrStorageUnavailable reports a failing persistence layer. It is logged, never returned to users.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrStaleResult reports a chapter load superseded by a newer selection.
	ErrStaleResult = errors.New("stale chapter result discarded")
	// ErrUnknownReciter reports a reciter id missing from the catalogue.
	ErrUnknownReciter = errors.New("unknown reciter")
	// ErrRecipientUnavailable reports a chat that blocked the bot or no longer exists.
	ErrRecipientUnavailable = errors.New("recipient unavailable")
)
