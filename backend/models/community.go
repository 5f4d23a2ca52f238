package models

type CommunityPost struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Content   string   `json:"content" yaml:"content"`
	Author    string   `json:"author" yaml:"author"`
	Category  string   `json:"category" yaml:"category"`
	TimeAgo   string   `json:"timeAgo" yaml:"timeAgo"`
	Upvotes   int      `json:"upvotes" yaml:"upvotes"`
	Downvotes int      `json:"downvotes" yaml:"downvotes"`
	Replies   int      `json:"replies" yaml:"replies"`
	Helpful   bool     `json:"helpful" yaml:"helpful"`
	Tags      []string `json:"tags" yaml:"tags"`
}

type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	// Tags is the raw comma separated text.
	Tags string `json:"tags"`
}

// VoteDirection is "up", "down" or empty for no vote.
type VoteDirection string

const (
	VoteNone VoteDirection = ""
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// PostView is a post as one viewer sees it.
type PostView struct {
	CommunityPost
	Score  int           `json:"score"`
	MyVote VoteDirection `json:"myVote,omitempty"`
}

type Category struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}
