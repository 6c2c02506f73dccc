package domain

import "time"

// Claims is the decoded payload of a validated access token.
type Claims struct {
	UserID    int
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type AuthToken struct {
	AccessToken string
	ExpiresAt   time.Time
}
