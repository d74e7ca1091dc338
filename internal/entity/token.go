package entity

// TokenPair is the credential set minted by the backend on login, refresh and
// context switch. The access token is a short-lived bearer credential; the
// refresh token is long-lived and only ever used to mint the next pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
