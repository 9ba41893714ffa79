package kakao

// UserInfo is the identity the rest of the system cares about.
type UserInfo struct {
	ID       string
	Nickname string
	Email    string
	Phone    string
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type userResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
		Profile     struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
}
