// Package catalog holds the static lookup tables served to clients for
// building a test configuration form. The data is inert configuration, not
// user state.
package catalog

// SchoolSubjects maps class-level bands to the subjects offered in them.
var SchoolSubjects = map[string][]string{
	"6-8":            {"Mathematics", "Science", "English", "Social Studies", "Hindi"},
	"9-10":           {"Mathematics", "Science", "English", "Social Science", "Hindi", "Sanskrit"},
	"11-12_science":  {"Physics", "Chemistry", "Mathematics", "Biology", "English", "Computer Science"},
	"11-12_commerce": {"Accountancy", "Business Studies", "Economics", "Mathematics", "English"},
	"11-12_arts":     {"History", "Political Science", "Geography", "Economics", "Psychology", "English"},
}

// CollegeCourses lists the supported college course identifiers.
var CollegeCourses = []string{
	"MBBS", "BDS", "CSE", "IT", "ECE", "EEE", "Mechanical", "Civil",
	"Biotechnology", "Biomedical", "Pharmacy", "Nursing", "BBA", "BCA",
}

// CompetitiveExams lists the supported competitive exam names.
var CompetitiveExams = []string{
	"JEE Mains", "JEE Advanced", "NEET", "CUET", "UPSC Prelims",
	"GATE", "CAT", "SAT", "GRE", "GMAT",
}

// Options is the /config/options payload.
type Options struct {
	SchoolSubjects   map[string][]string `json:"school_subjects"`
	CollegeCourses   []string            `json:"college_courses"`
	CompetitiveExams []string            `json:"competitive_exams"`
}

// DefaultOptions returns the full option catalog.
func DefaultOptions() Options {
	return Options{
		SchoolSubjects:   SchoolSubjects,
		CollegeCourses:   CollegeCourses,
		CompetitiveExams: CompetitiveExams,
	}
}
