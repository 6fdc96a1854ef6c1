package model

// Identity is the authenticated principal derived from a verified credential.
type Identity struct {
	Email string `json:"email"`
}

// TokenResponse carries the issued credential; an empty AccessToken is sent
// alongside a 401 when the email maps to no account.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}
