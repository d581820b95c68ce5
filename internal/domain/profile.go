package domain

import "time"

// StudentProfile is the denormalized students-table projection of an
// identity, created lazily on first log-in and never updated afterwards.
type StudentProfile struct {
	ID            string    `json:"id"             db:"id"`
	Email         string    `json:"email"          db:"email"`
	Name          string    `json:"name"           db:"name"`
	Interest      string    `json:"interest"       db:"interest"`
	FollowingList []string  `json:"following_list" db:"following_list"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
}

// InstructorProfile is the instructors-table projection of an identity.
type InstructorProfile struct {
	ID         string    `json:"id"         db:"id"`
	Email      string    `json:"email"      db:"email"`
	Name       string    `json:"name"       db:"name"`
	Interest   string    `json:"interest"   db:"interest"`
	Occupation string    `json:"occupation" db:"occupation"`
	Bio        string    `json:"bio"        db:"bio"`
	URL        string    `json:"url"        db:"url"`
	Image      string    `json:"image"      db:"image"`
	Followers  []string  `json:"followers"  db:"followers"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
