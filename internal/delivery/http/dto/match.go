package dto

type MatchFilters struct {
	Location string `json:"location"`
	Company  string `json:"company"`
	Name     string `json:"name"`
}

type MatchRequest struct {
	Skills  []string     `json:"skills" validate:"max=50,dive,max=100"`
	Filters MatchFilters `json:"filters"`
	TopN    int          `json:"topN" validate:"min=0"`
}

type MentorMatchResponse struct {
	UID          string   `json:"uid"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Skills       []string `json:"skills"`
	Score        int      `json:"score"`
	CommonSkills []string `json:"commonSkills"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	JobTitle     string   `json:"jobTitle"`
}

type MatchListResponse struct {
	Matches []MentorMatchResponse `json:"matches"`
}
