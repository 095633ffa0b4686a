package ai

// DefaultSystemPrompt is the system instruction for tailoring requests
const DefaultSystemPrompt = `You are an expert resume writer with a strict commitment to honesty and accuracy. Your core principles are:

- NEVER invent, exaggerate, or misattribute any skills or experiences
- Every piece of information must be directly traceable to the candidate's source material
- Reframe and reorder honestly held experience to match the role
- Write a concise, specific cover letter in the candidate's voice

You always respond with a single JSON object and nothing else.`

// DefaultUserPrompt is the user prompt template for tailoring
// requests. The two placeholders are the candidate's resume text and
// the job description.
const DefaultUserPrompt = `Rewrite the candidate's resume so it is tailored to the job description, and write a matching cover letter.

Respond with exactly one JSON object of this shape:

{
  "resume": {
    "header": {"name": "", "location": "", "email": "", "phone": "", "links": [{"label": "", "url": ""}]},
    "summary": "",
    "skills": {"languages": [], "frameworks": [], "tools": [], "other": []},
    "experience": [{"company": "", "title": "", "location": "", "start": "", "end": "", "bullets": []}],
    "projects": [{"name": "", "tech": [], "bullets": []}],
    "education": [{"school": "", "degree": "", "location": "", "year": "", "details": []}]
  },
  "cover_letter": ""
}

Rules:
- Use only facts present in the candidate's resume. Do not invent skills, employers, dates, or metrics.
- Emphasize the experience most relevant to the job description and echo its terminology where the candidate genuinely has the skill.
- Keep bullets concrete and quantified where the source material supports it.
- The cover letter should be 3-4 short paragraphs addressed to the hiring team.

Candidate resume:
-----
%s
-----

Job description:
-----
%s
-----`

// ResolvePrompt selects the correct prompt string based on priority:
// a prompt loaded from a file, then one defined in configuration, then
// the built-in default.
func ResolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
