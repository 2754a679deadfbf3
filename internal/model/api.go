package model

// GenerateTestResponse is returned after a test session is created.
// NumQuestions reflects the actual generated count, which may be below the
// requested count when the AI under-delivers.
type GenerateTestResponse struct {
	SessionID    string     `json:"session_id"`
	NumQuestions int        `json:"num_questions"`
	Config       TestConfig `json:"config"`
}

// QuestionResponse is the payload for fetching a single question.
// CorrectAnswer is exposed on purpose so the client can show immediate
// feedback after answering.
type QuestionResponse struct {
	QuestionIndex  int      `json:"question_index"`
	TotalQuestions int      `json:"total_questions"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	UserAnswer     *string  `json:"user_answer"`
	CorrectAnswer  string   `json:"correct_answer"`
}

// AnswerRequest is the body of an answer submission.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// AnswerResponse acknowledges a saved answer.
type AnswerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// QuestionResult is one scored question in a submit response.
type QuestionResult struct {
	QuestionIndex int      `json:"question_index"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	UserAnswer    *string  `json:"user_answer"`
	CorrectAnswer string   `json:"correct_answer"`
	IsCorrect     bool     `json:"is_correct"`
}

// SubmitResponse is the final score report for a submitted test.
type SubmitResponse struct {
	SessionID  string           `json:"session_id"`
	Score      int              `json:"score"`
	Total      int              `json:"total"`
	Percentage float64          `json:"percentage"`
	Results    []QuestionResult `json:"results"`
	Config     TestConfig       `json:"config"`
}

// TestSummaryResponse reports session progress without scoring it.
type TestSummaryResponse struct {
	SessionID    string     `json:"session_id"`
	NumQuestions int        `json:"num_questions"`
	NumAnswered  int        `json:"num_answered"`
	Submitted    bool       `json:"submitted"`
	Config       TestConfig `json:"config"`
}

// ErrorResponse is the uniform error payload. Detail is either a plain
// message string or a list of FieldError for config validation failures.
type ErrorResponse struct {
	Detail any `json:"detail"`
}
