package service

import "math/rand"

// Руки дзянкена
const (
	JankenRock     = "rock"
	JankenScissors = "scissors"
	JankenPaper    = "paper"
)

// JankenOutcome представляет исход партии дзянкена
type JankenOutcome int

const (
	// JankenDraw ничья
	JankenDraw JankenOutcome = iota
	// JankenPlayerWin победа игрока
	JankenPlayerWin
	// JankenBotWin победа бота
	JankenBotWin
)

// jankenBeats отображает руку на руку, которую она бьет
var jankenBeats = map[string]string{
	JankenRock:     JankenScissors,
	JankenScissors: JankenPaper,
	JankenPaper:    JankenRock,
}

// ValidJankenHand сообщает, допустима ли рука
func ValidJankenHand(hand string) bool {
	_, ok := jankenBeats[hand]
	return ok
}

// RandomJankenHand возвращает случайную руку бота
func RandomJankenHand() string {
	hands := []string{JankenRock, JankenScissors, JankenPaper}
	return hands[rand.Intn(len(hands))]
}

// JankenJudge судит партию по классическим правилам
func JankenJudge(player, bot string) JankenOutcome {
	if player == bot {
		return JankenDraw
	}
	if jankenBeats[player] == bot {
		return JankenPlayerWin
	}
	return JankenBotWin
}
