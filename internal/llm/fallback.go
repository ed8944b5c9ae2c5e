package llm

// FallbackQuestions is the fixed ordered list of canned interview questions
// used when the completion endpoint fails or returns unparsable content.
// Indexed by the session's question counter, clamped at the last entry.
var FallbackQuestions = []QuestionPayload{
	{
		Question:       "What kind of business do you run?",
		QuickResponses: []string{"E-commerce", "SaaS", "Agency", "Retail", "Something else"},
	},
	{
		Question:       "How many people work in your business, including you?",
		QuickResponses: []string{"Just me", "2-5", "6-10", "More than 10"},
	},
	{
		Question:       "What task eats up most of your week?",
		QuickResponses: []string{"Admin & paperwork", "Customer support", "Marketing", "Bookkeeping"},
	},
	{
		Question:       "Which tools do you currently rely on day to day?",
		QuickResponses: []string{"Spreadsheets", "QuickBooks", "Shopify", "Mostly email"},
	},
	{
		Question:       "How many hours a week do you spend on repetitive manual work?",
		QuickResponses: []string{"Under 5", "5-10", "10-20", "More than 20"},
	},
	{
		Question:       "What would you do with an extra day per week?",
		QuickResponses: []string{"Grow sales", "Improve the product", "Take time off", "Hire help"},
	},
	{
		Question:       "Do you have a monthly budget in mind for automation tools?",
		QuickResponses: []string{"Nothing yet", "Under $100", "$100-$500", "More than $500"},
	},
	{
		Question:       "How comfortable are you setting up new software yourself?",
		QuickResponses: []string{"Not at all", "With some help", "Very comfortable"},
	},
	{
		Question:       "How soon do you want to start automating?",
		QuickResponses: []string{"Right away", "Within a month", "Just exploring"},
	},
	{
		Question:       "Anything else about your business we should know?",
		QuickResponses: []string{"That covers it"},
	},
}

// FallbackQuestion returns the canned question for the given question
// counter, clamped to the list's bounds.
func FallbackQuestion(counter int) QuestionPayload {
	if counter < 0 {
		counter = 0
	}
	if counter >= len(FallbackQuestions) {
		counter = len(FallbackQuestions) - 1
	}
	return FallbackQuestions[counter]
}
