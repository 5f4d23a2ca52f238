package models

// User is the signed-in identity. It is synthesized from the sign-in or
// sign-up form and never verified.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
