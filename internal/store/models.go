package store

import "time"

// Response status values.
const (
	StatusAnswered = "answered"
	StatusSkipped  = "skipped"
)

// User is a registered quiz taker.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:80;uniqueIndex;not null"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128"`
	// Interests is a comma-separated list of preferred news categories.
	Interests  string `gorm:"size:255"`
	SignedUpAt time.Time
}

// Article is a news article a question was generated from.
type Article struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Content     string `gorm:"type:text"`
	URL         string `gorm:"size:255;uniqueIndex"`
	Category    string `gorm:"size:50"`
	PublishedAt string `gorm:"size:50"`
	CreatedAt   time.Time
}

// Question is an admin-curated opinion question. Questions are created
// by the ingestion collaborator and read-only to the quiz core.
type Question struct {
	ID          uint   `gorm:"primaryKey"`
	Text        string `gorm:"type:text;not null"`
	Category    string `gorm:"size:50;not null;index"`
	Valid       bool   `gorm:"default:false"`
	Refused     bool   `gorm:"default:false"`
	CreatedAt   time.Time
	ValidatedAt *time.Time

	ArticleID *uint
	Article   *Article
}

// Response is a user's answer (or skip) for one question. At most one
// response per (user, question) is active; deactivated rows are kept
// as history for longitudinal comparison across quiz retakes.
type Response struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"not null;index;uniqueIndex:uniq_active_response"`
	QuestionID uint   `gorm:"not null;uniqueIndex:uniq_active_response"`
	Text       string `gorm:"type:text"`
	Status     string `gorm:"size:20;default:answered"`
	Active     bool   `gorm:"default:true;uniqueIndex:uniq_active_response"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Question Question
}

// Profile is one synthesized political-orientation result. Exactly one
// profile per user is current; the rest are history. Rows are never
// mutated after creation except for the Current flag.
type Profile struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Text      string `gorm:"type:text;not null"`
	Current   bool   `gorm:"default:true"`
	CreatedAt time.Time

	// Scalar fields extracted from Text, for comparison across retakes.
	Party       string `gorm:"size:255"`
	Orientation string `gorm:"size:255"`

	// Ideology percentages (0-100) parsed from the ASCII graphic block.
	// Nil when the graphic carried no row for that ideology.
	Conservatism       *int
	Socialism          *int
	Liberalism         *int
	EconomicLiberalism *int
	Communism          *int
	Fascism            *int
	Progressivism      *int
	Nationalism        *int
	Anarchism          *int
	Ecologism          *int
	Populism           *int
	Centrism           *int
}

// QuizProgress is the durable form of a user's traversal state, saved
// on "pause" so a later "resume" lands back on the same category with
// the exhausted-category set restored. One row per user.
type QuizProgress struct {
	UserID          uint   `gorm:"primaryKey"`
	CurrentCategory string `gorm:"size:50"`
	// ExhaustedJSON is the JSON-encoded ordered list of categories
	// found exhausted in this traversal.
	ExhaustedJSON string `gorm:"type:text"`
	InProgress    bool
	FollowUp      bool
	UpdatedAt     time.Time
}

// SessionToken is an opaque browser-session token.
type SessionToken struct {
	Token     string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"not null;index"`
	CreatedAt time.Time
}
