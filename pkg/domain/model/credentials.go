package model

// ServiceCredentials holds the service-account material used for the token
// exchange. Secret fields carry masq tags so any slog echo is redacted.
type ServiceCredentials struct {
	ClientID           string   `json:"client_id"`
	ClientSecret       string   `json:"client_secret" masq:"secret"`
	TechnicalAccountID string   `json:"technical_account_id"`
	OrgID              string   `json:"org_id"`
	PrivateKey         string   `json:"private_key" masq:"secret"`
	Metascopes         []string `json:"metascopes"`
}

// Token is a bearer token obtained from the token service
type Token struct {
	Value     string `json:"access_token" masq:"secret"`
	Type      string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}
