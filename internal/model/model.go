package model

type Registration struct {
	ID            int    `db:"id" json:"id"`
	UserID        int64  `db:"user_id" json:"user_id"`
	ReferenceCode string `db:"reference_code" json:"reference_code"`
	Allergy       string `db:"allergy,omitempty" json:"allergy,omitempty"`
	TshirtSize    string `db:"tshirt_size" json:"tshirt_size"`
	Single        *bool  `db:"single,omitempty" json:"single,omitempty"`
}

type ReferenceCode struct {
	Code string `db:"code" json:"code"`
	Used bool   `db:"used" json:"used"`
}

type Team struct {
	TeamName  string  `db:"team_name" json:"team_name"`
	MemberIDs []int64 `db:"member_ids" json:"member_ids"`
}

type Project struct {
	TeamName    string `db:"team_name" json:"team_name"`
	ProjectName string `db:"project_name" json:"project_name"`
	ProjectURL  string `db:"project_url" json:"project_url"`
	Description string `db:"project_description" json:"project_description"`
	Thumbnail   string `db:"thumbnail_url" json:"thumbnail_url"`
}

type GithubProfile struct {
	UserID   int64  `db:"user_id" json:"user_id"`
	Username string `db:"github_username" json:"github_username"`
}

type Vote struct {
	UserID   int64  `db:"user_id" json:"user_id"`
	TeamName string `db:"team_name" json:"team_name"`
	Rating   int    `db:"rating" json:"rating"`
}
