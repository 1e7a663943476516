package matching

import (
	"sort"
	"strings"

	"alumni-connect/internal/domain/profile"
)

const (
	PointsPerCommonSkill = 5
	LocationBonus        = 10
	CompanyBonus         = 10
)

// Filters are case-insensitive "contains" constraints. An empty field
// imposes no constraint.
type Filters struct {
	Location string
	Company  string
	Name     string
}

type Result struct {
	UID          string
	Name         string
	Email        string
	Skills       []string
	Score        int
	CommonSkills []string
	Company      string
	Location     string
	JobTitle     string
}

// Query is a normalized matching request, built once and evaluated against
// every candidate.
type Query struct {
	skills   []string
	location string
	company  string
	name     string
}

func NewQuery(requesterSkills []string, f Filters) Query {
	return Query{
		skills:   NormalizeSkills(requesterSkills),
		location: normalize(f.Location),
		company:  normalize(f.Company),
		name:     normalize(f.Name),
	}
}

// HasSkills reports whether the requester supplied at least one usable skill.
func (q Query) HasSkills() bool {
	return len(q.skills) > 0
}

// Evaluate scores one candidate. ok is false when the candidate is not
// eligible, fails a filter, or has no relevance to a skill query.
func (q Query) Evaluate(c profile.Profile) (Result, bool) {
	if !c.IsMentorCandidate() {
		return Result{}, false
	}

	location := strings.ToLower(c.Location)
	company := strings.ToLower(c.Company)

	if q.location != "" && !strings.Contains(location, q.location) {
		return Result{}, false
	}
	if q.company != "" && !strings.Contains(company, q.company) {
		return Result{}, false
	}
	if q.name != "" && !strings.Contains(strings.ToLower(c.Name), q.name) {
		return Result{}, false
	}

	skills := NormalizeSkills(c.Skills)
	common := make([]string, 0, len(skills))
	for _, cs := range skills {
		if matchesAny(cs, q.skills) {
			common = append(common, cs)
		}
	}

	score := len(common) * PointsPerCommonSkill
	if q.location != "" && strings.Contains(location, q.location) {
		score += LocationBonus
	}
	if q.company != "" && strings.Contains(company, q.company) {
		score += CompanyBonus
	}

	// A location or company bonus alone keeps a candidate in a skill query.
	if q.HasSkills() && len(common) == 0 && score == 0 {
		return Result{}, false
	}

	return Result{
		UID:          c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Skills:       skills,
		Score:        score,
		CommonSkills: common,
		Company:      c.Company,
		Location:     c.Location,
		JobTitle:     c.JobTitle,
	}, true
}

// Rank orders results by score descending then name ascending, keeping the
// input order for full ties, and truncates to topN.
func Rank(results []Result, topN int) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})
	if topN >= 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}

// FindTopMentors evaluates the pool sequentially and ranks the survivors.
func FindTopMentors(pool []profile.Profile, requesterSkills []string, f Filters, topN int) []Result {
	q := NewQuery(requesterSkills, f)
	out := make([]Result, 0, len(pool))
	for _, c := range pool {
		if r, ok := q.Evaluate(c); ok {
			out = append(out, r)
		}
	}
	return Rank(out, topN)
}

// NormalizeSkills lowercases and trims each skill, dropping empty entries.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if n := normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// matchesAny uses bidirectional containment so "react" and "react.js"
// match each other.
func matchesAny(candidateSkill string, requesterSkills []string) bool {
	for _, rs := range requesterSkills {
		if strings.Contains(candidateSkill, rs) || strings.Contains(rs, candidateSkill) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
