package model

import (
	"fmt"
	"strings"
	"time"
)

// Domain selects which config fields are required and how the prompt is framed.
type Domain string

const (
	DomainSchool      Domain = "school"
	DomainCollege     Domain = "college"
	DomainCompetitive Domain = "competitive"
)

// TestConfig describes a single test-generation request.
type TestConfig struct {
	Domain Domain `json:"domain"`

	// School fields.
	ClassLevel int    `json:"class_level,omitempty"`
	Subject    string `json:"subject,omitempty"`

	// College fields.
	Course   string `json:"course,omitempty"`
	Semester int    `json:"semester,omitempty"`

	// Competitive fields.
	Exam string `json:"exam,omitempty"`

	// Common fields.
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
}

// Validate checks the domain-conditional field requirements. It returns a
// *ValidationError listing every violated field, or nil when the config is
// well-formed.
func (c TestConfig) Validate() error {
	var fields []FieldError

	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	switch c.Domain {
	case DomainSchool:
		if c.ClassLevel < 6 || c.ClassLevel > 12 {
			add("class_level", "class level must be between 6 and 12")
		}
		if strings.TrimSpace(c.Subject) == "" {
			add("subject", "subject is required for school domain")
		}
	case DomainCollege:
		if strings.TrimSpace(c.Course) == "" {
			add("course", "course is required for college domain")
		}
		if c.Semester != 0 && (c.Semester < 1 || c.Semester > 8) {
			add("semester", "semester must be between 1 and 8")
		}
	case DomainCompetitive:
		if strings.TrimSpace(c.Exam) == "" {
			add("exam", "exam is required for competitive domain")
		}
	default:
		add("domain", "domain must be one of: school, college, competitive")
	}

	if l := len(c.Topic); l < 1 || l > 100 {
		add("topic", "topic must be between 1 and 100 characters")
	}
	if c.NumQuestions < 5 || c.NumQuestions > 20 {
		add("num_questions", "number of questions must be between 5 and 20")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// FieldError describes a validation failure on a single config field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError aggregates field-level failures from TestConfig.Validate.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("invalid test config: %s", strings.Join(msgs, "; "))
}

// Question is a validated multiple-choice question. CorrectAnswer is always
// one of the four Options.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// TestSession is a server-held record of one generated test and its
// in-progress answers. Instances are owned exclusively by the session store.
type TestSession struct {
	SessionID   string
	Config      TestConfig
	Questions   []Question
	UserAnswers []*string // nil means unanswered
	CreatedAt   time.Time
	Submitted   bool
}

// NumAnswered reports how many answer slots are filled.
func (s *TestSession) NumAnswered() int {
	n := 0
	for _, a := range s.UserAnswers {
		if a != nil {
			n++
		}
	}
	return n
}
