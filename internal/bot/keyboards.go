package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/telegram/callbacks"
	"github.com/m3rciful/quizbot/core/telegram/keyboard"
	"github.com/m3rciful/quizbot/internal/quiz"
)

// answerPrefix + letter is the callback unique of an answer button.
const answerPrefix = "answer_"

var (
	adminRows = [][]string{
		{LabelAddQuestion},
		{LabelAllQuestions},
	}
	userRows = [][]string{
		{LabelTakeQuiz},
		{LabelTopics, LabelMyStats},
		{LabelDonate},
	}
)

func userMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(userRows...)
}

// adminMenu carries the user rows too so admins can take quizzes.
func adminMenu() *tele.ReplyMarkup {
	rows := append(append([][]string{}, adminRows...), userRows...)
	return keyboard.ReplyButtons(rows...)
}

func topicsMenu(topics []string) *tele.ReplyMarkup {
	rows := keyboard.Chunk(topics, 1)
	rows = append(rows, []string{LabelBack})
	return keyboard.ReplyButtons(rows...)
}

// answerKeyboard is a 2x2 grid; each button carries the question id so a stale
// keyboard cannot answer a later question.
func answerKeyboard(q quiz.Question) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(quiz.Letters))
	for _, l := range quiz.Letters {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   string(l),
			Unique: answerPrefix + string(l),
			Data:   fmt.Sprint(q.ID),
		})
	}
	return keyboard.InlineButtonsNPerRow(buttons, 2)
}

// answerData is the raw callback data Telegram returns for a button of answerKeyboard.
func answerData(l quiz.Letter, questionID int64) string {
	return callbacks.Data(answerPrefix+string(l), fmt.Sprint(questionID))
}

func questionText(q quiz.Question, position, total int) string {
	return fmt.Sprintf("❓ %d/%d. %s\n\nA) %s\nB) %s\nC) %s\nD) %s",
		position, total, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD)
}
