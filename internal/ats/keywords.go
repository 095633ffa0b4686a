package ats

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"resumeforge/internal/types"
)

// DefaultMaxKeywords bounds the ranked keyword list when no explicit
// limit is configured.
const DefaultMaxKeywords = 35

// tokenPattern keeps letters plus the punctuation that appears inside
// real technology names (c++, c#, node.js, ci/cd, front-end). Digits
// are captured so that a token like "python3" stays whole and is then
// rejected as a unit instead of leaking a partial "python".
var tokenPattern = regexp.MustCompile(`[a-z0-9+#./-]+`)

// shortAllowlist holds the tokens below three characters that are
// meaningful technology names rather than noise.
var shortAllowlist = map[string]bool{
	"c": true, "r": true, "go": true, "js": true, "ts": true,
}

// synonyms folds common alternate spellings onto one canonical token
// so a job posting and a resume agree on the same vocabulary.
var synonyms = map[string]string{
	"typescript": "ts",
	"javascript": "js",
	"node":       "node.js",
	"nodejs":     "node.js",
	"golang":     "go",
	"postgres":   "postgresql",
	"k8s":        "kubernetes",
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "you": true,
	"are": true, "our": true, "will": true, "have": true, "that": true,
	"this": true, "your": true, "from": true, "who": true, "can": true,
	"all": true, "has": true, "was": true, "not": true, "but": true,
	"their": true, "they": true, "them": true, "its": true, "about": true,
	"into": true, "more": true, "than": true, "other": true, "such": true,
	"what": true, "when": true, "where": true, "while": true, "able": true,
	"across": true, "also": true, "any": true, "been": true, "being": true,
	"both": true, "each": true, "using": true, "within": true, "would": true,
	"should": true, "must": true, "may": true, "per": true, "via": true,
	// resume and job-posting filler
	"experience": true, "experienced": true, "skills": true, "team": true,
	"teams": true, "work": true, "working": true, "role": true,
	"years": true, "year": true, "strong": true, "ability": true,
	"candidate": true, "candidates": true, "position": true,
	"responsibilities": true, "requirements": true, "required": true,
	"preferred": true, "plus": true, "bonus": true, "including": true,
	"knowledge": true, "understanding": true, "familiarity": true,
	"excellent": true, "proficiency": true, "proficient": true,
	"company": true, "job": true, "description": true, "looking": true,
	"join": true, "opportunity": true, "benefits": true, "salary": true,
	"etc": true, "new": true, "well": true, "like": true, "related": true,
	"best": true, "practices": true, "environment": true, "build": true,
	"building": true, "develop": true, "developing": true, "development": true,
	"developer": true, "engineer": true, "engineering": true, "engineers": true,
	"senior": true, "junior": true, "software": true, "technical": true,
	"solutions": true, "systems": true, "tools": true, "technologies": true,
	"service": true, "services": true,
}

// ExtractKeywords tokenizes job-description text and returns the
// ranked keyword list, most frequent first, capped at max (the default
// cap applies when max is zero or negative). Ties keep first-seen
// order so the ranking is deterministic.
func ExtractKeywords(text string, max int) []types.Keyword {
	if max <= 0 {
		max = DefaultMaxKeywords
	}

	lowered := strings.ToLower(text)
	lowered = strings.NewReplacer("’", "'", "‘", "'").Replace(lowered)

	counts := map[string]int{}
	var order []string
	for _, raw := range tokenPattern.FindAllString(lowered, -1) {
		token := normalizeToken(raw)
		if token == "" {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	keywords := make([]types.Keyword, 0, len(order))
	for _, token := range order {
		keywords = append(keywords, types.Keyword{Token: token, Count: counts[token]})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})
	if len(keywords) > max {
		keywords = keywords[:max]
	}
	return keywords
}

// normalizeToken cleans one raw token and reports "" when the token
// should be discarded.
func normalizeToken(raw string) string {
	token := strings.Trim(raw, ".-/")
	if token == "" {
		return ""
	}
	if strings.ContainsAny(token, "0123456789") {
		return ""
	}
	if canonical, ok := synonyms[token]; ok {
		token = canonical
	}
	if len(token) < 3 && !shortAllowlist[token] {
		return ""
	}
	if stopwords[token] {
		return ""
	}
	return token
}

// Match checks which of the job keywords appear in the candidate text
// and computes the coverage score. An empty keyword list scores zero:
// no evidence of requirements means no claim of coverage.
func Match(text string, keywords []types.Keyword) types.MatchResult {
	result := types.MatchResult{
		Keywords: []string{},
		Present:  []string{},
		Missing:  []string{},
	}
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		result.Keywords = append(result.Keywords, kw.Token)
		if strings.Contains(lowered, kw.Token) {
			result.Present = append(result.Present, kw.Token)
		} else {
			result.Missing = append(result.Missing, kw.Token)
		}
	}
	if len(result.Keywords) > 0 {
		result.Score = int(math.Round(100 * float64(len(result.Present)) / float64(len(result.Keywords))))
	}
	return result
}
