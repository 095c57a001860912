package bot

// Reply keyboard labels. Handlers match them exactly.
const (
	LabelAddQuestion  = "📥 Add question"
	LabelAllQuestions = "📄 All questions"
	LabelTakeQuiz     = "🧠 Take quiz"
	LabelTopics       = "📚 Topics"
	LabelMyStats      = "📈 My stats"
	LabelDonate       = "💰 Donate"
	LabelBack         = "◀️ Back"
)

const (
	msgWelcomeAdmin = "Welcome to the admin panel!"
	msgWelcomeUser  = "Welcome to the quiz bot! Choose an action 👇"
	msgBackToMenu   = "You are back in the menu."
	msgCancelled    = "Cancelled. You are back in the menu."
	msgChooseAction = "Choose an action from the menu 👇"
	msgNoRights     = "❌ You don't have permission for this action."
	msgFailure      = "⚠️ Something went wrong. Please try again later."

	msgNoTopics        = "No topics have been added yet."
	msgChooseTopic     = "Choose a quiz topic:"
	msgNoQuestionsFor  = "There are no questions on this topic."
	msgUseButtons      = "Please answer with the buttons under the question."
	msgQuizFinished    = "✅ Quiz finished!\nYour result: %d/%d"
	msgQuizInactive    = "This quiz is no longer active."
	msgQuestionExpired = "This question has already been answered."
	msgAnswerCorrect   = "✅ Correct!"
	msgAnswerWrong     = "❌ Wrong. The answer was %s."

	msgStats   = "📊 Your statistics:\n\n🧪 Questions answered: %d\n✅ Correct answers: %d"
	msgNoStats = "No statistics yet. Take at least one quiz."

	promptTopic    = "Enter the question topic:"
	promptQuestion = "Enter the question text:"
	promptOptionA  = "Option A:"
	promptOptionB  = "Option B:"
	promptOptionC  = "Option C:"
	promptOptionD  = "Option D:"
	promptCorrect  = "Enter the correct option (A/B/C/D):"
	msgOnlyLetters = "Enter only A, B, C or D."
	msgSaved       = "✅ Question added!"

	msgQuestionsHeader = "Questions and answers:\n\n"
	msgNoQuestions     = "There are no questions in the database."

	msgDeleteUsage    = "❌ Please provide the question text to delete. Example:\n/delete What is the capital of Kazakhstan?"
	msgDeleted        = "✅ Question '%s' was deleted."
	msgDeleteNotFound = "❌ Could not find such a question to delete."

	msgAddAdminUsage     = "❌ Please specify the ID of the user to make an administrator."
	msgRemoveAdminUsage  = "❌ Please specify the ID of the administrator to remove."
	msgBadUserID         = "❌ Please specify a valid user ID."
	msgAdminAdded        = "✅ User with ID %d is now an administrator."
	msgAdminRemoved      = "✅ User with ID %d is no longer an administrator."
	msgAlreadyAdmin      = "ℹ️ User with ID %d is already an administrator."
	msgNotAdmin          = "ℹ️ User with ID %d is not an administrator."
	msgNotifyGranted     = "🎉 You have been added to the bot administrators!"
	msgNotifyRevoked     = "❌ You have been removed from the bot administrators."
	msgNotifyAddFailed   = "❌ Could not notify the new administrator. Error: %v"
	msgNotifyRemoveFailed = "❌ Could not notify the removed administrator. Error: %v"
	msgAdminsHeader      = "👥 Administrators:\n"
	msgSuperAdminLine    = "★ %d (super admin)\n"
)
