package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionChapters   = "chapters"
	actionChapter    = "chapter"
	actionPlayer     = "player"
	actionEnded      = "ended"
	actionTafsir     = "tafsir"
	actionReciter    = "reciter"
	actionSettings   = "settings"
	actionReset      = "reset"
	actionResume     = "resume"
	actionOnboarding = "onboarding"
)

// Player sub-actions.
const (
	playerPlay  = "play"
	playerPause = "pause"
	playerNext  = "next"
	playerPrev  = "prev"
	playerFirst = "first"
)

// Settings sub-actions.
const (
	settingsMenu      = "menu"
	settingsFontUp    = "font_up"
	settingsFontDown  = "font_down"
	settingsTheme     = "theme"
	settingsReciters  = "reciters"
	settingsResetFont = "font_reset"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

const onboardingDone = "done"

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam returns the i-th parameter as an int.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil {
		return 0, false
	}
	return n, true
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildChaptersPageCallback builds callback data for a chapter list page.
func buildChaptersPageCallback(page int) string {
	return callbackData{
		Action: actionChapters,
		Params: []string{strconv.Itoa(page)},
	}.encode()
}

// buildChapterCallback builds callback data for opening a chapter.
func buildChapterCallback(number int) string {
	return callbackData{
		Action: actionChapter,
		Params: []string{strconv.Itoa(number)},
	}.encode()
}

func buildPlayerCallback(subAction string) string {
	return callbackData{
		Action: actionPlayer,
		Params: []string{subAction},
	}.encode()
}

// buildEndedCallback builds callback data for the "verse finished" button of an audio track.
func buildEndedCallback(track uint64) string {
	return callbackData{
		Action: actionEnded,
		Params: []string{strconv.FormatUint(track, 10)},
	}.encode()
}

func buildTafsirCallback() string {
	return actionTafsir
}

func buildReciterCallback(id string) string {
	return callbackData{
		Action: actionReciter,
		Params: []string{id},
	}.encode()
}

// buildSettingsCallback builds callback data for settings-related actions.
func buildSettingsCallback(subAction string) string {
	return callbackData{
		Action: actionSettings,
		Params: []string{subAction},
	}.encode()
}

func buildResetAskCallback() string {
	return actionReset
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}

func buildResumeCallback() string {
	return actionResume
}

func buildOnboardingDoneCallback() string {
	return callbackData{Action: actionOnboarding, Params: []string{onboardingDone}}.encode()
}
