package types

// Link is a single labeled URL in the resume header (portfolio, GitHub, etc.)
type Link struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Header holds the identity and contact block of a resume
type Header struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Links    []Link `json:"links"`
}

// Skills groups skill entries into the four fixed categories
type Skills struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	Tools      []string `json:"tools"`
	Other      []string `json:"other"`
}

// Experience is one work history entry; Company and Title are required
type Experience struct {
	Company  string   `json:"company"`
	Title    string   `json:"title"`
	Location string   `json:"location,omitempty"`
	Start    string   `json:"start,omitempty"`
	End      string   `json:"end,omitempty"`
	Bullets  []string `json:"bullets"`
}

// Project is one project entry; Name is required
type Project struct {
	Name    string   `json:"name"`
	Tech    []string `json:"tech"`
	Bullets []string `json:"bullets"`
}

// Education is one education entry; School is required
type Education struct {
	School   string   `json:"school"`
	Degree   string   `json:"degree,omitempty"`
	Location string   `json:"location,omitempty"`
	Year     string   `json:"year,omitempty"`
	Details  []string `json:"details"`
}

// Resume is the canonical structured record. After normalization every
// list field is non-nil (possibly empty) and every entry carries its
// required identifying fields.
type Resume struct {
	Header     Header       `json:"header"`
	Summary    string       `json:"summary"`
	Skills     Skills       `json:"skills"`
	Experience []Experience `json:"experience"`
	Projects   []Project    `json:"projects"`
	Education  []Education  `json:"education"`
}

// Clone returns a deep copy of the resume so edits never alias the
// original value (copy-on-write semantics for the regenerate flow).
func (r Resume) Clone() Resume {
	out := r
	out.Header.Links = append([]Link(nil), r.Header.Links...)
	out.Skills.Languages = append([]string(nil), r.Skills.Languages...)
	out.Skills.Frameworks = append([]string(nil), r.Skills.Frameworks...)
	out.Skills.Tools = append([]string(nil), r.Skills.Tools...)
	out.Skills.Other = append([]string(nil), r.Skills.Other...)
	out.Experience = make([]Experience, len(r.Experience))
	for i, e := range r.Experience {
		e.Bullets = append([]string(nil), e.Bullets...)
		out.Experience[i] = e
	}
	out.Projects = make([]Project, len(r.Projects))
	for i, p := range r.Projects {
		p.Tech = append([]string(nil), p.Tech...)
		p.Bullets = append([]string(nil), p.Bullets...)
		out.Projects[i] = p
	}
	out.Education = make([]Education, len(r.Education))
	for i, ed := range r.Education {
		ed.Details = append([]string(nil), ed.Details...)
		out.Education[i] = ed
	}
	return out
}

// Keyword is a ranked token extracted from job-description text
type Keyword struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// MatchResult reports how well a candidate text covers the job keywords
type MatchResult struct {
	Score    int      `json:"score"`
	Keywords []string `json:"keywords"`
	Present  []string `json:"present"`
	Missing  []string `json:"missing"`
}

// TailorInput represents the input for tailoring a resume
type TailorInput struct {
	JobDescription string `json:"jobDescription"`
	ResumeText     string `json:"resumeText"`
}

// DocumentBundle holds the rendered binary documents for a tailor or
// regenerate result. []byte fields marshal as base64 for transport.
type DocumentBundle struct {
	ResumePDF       []byte `json:"resumePdf"`
	ResumeDOCX      []byte `json:"resumeDocx"`
	CoverLetterPDF  []byte `json:"coverLetterPdf"`
	CoverLetterDOCX []byte `json:"coverLetterDocx"`
}

// TokenUsage reports model token counts for one tailoring call
type TokenUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens"`
}

// TailorResult is the full output of one tailoring run. TokenUsage is
// nil for results that did not involve a model call (regenerate).
type TailorResult struct {
	SourceText  string         `json:"sourceText"`
	ATSText     string         `json:"atsText"`
	Resume      Resume         `json:"resume"`
	CoverLetter string         `json:"coverLetter"`
	Match       MatchResult    `json:"match"`
	Documents   DocumentBundle `json:"documents"`
	TokenUsage  *TokenUsage    `json:"tokenUsage,omitempty"`
}
