package profile

import "time"

type Profile struct {
	UserID      string    `json:"user_id" db:"user_id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	MiddleName  *string   `json:"middle_name" db:"middle_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Location    string    `json:"location" db:"location"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Input is the writable part of a profile as posted by the client.
type Input struct {
	FirstName   string  `json:"first_name"`
	MiddleName  *string `json:"middle_name"`
	LastName    string  `json:"last_name"`
	Location    string  `json:"location"`
	PhoneNumber string  `json:"phone_number"`
}

func (in Input) profile(userID string) Profile {
	return Profile{
		UserID:      userID,
		FirstName:   in.FirstName,
		MiddleName:  in.MiddleName,
		LastName:    in.LastName,
		Location:    in.Location,
		PhoneNumber: in.PhoneNumber,
	}
}
