package domain

// UserInfo is the profile returned by the provider's userinfo endpoint.
type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name,omitempty"`
	GivenName     string `json:"given_name,omitempty"`
	FamilyName    string `json:"family_name,omitempty"`
	Picture       string `json:"picture,omitempty"`
	Locale        string `json:"locale,omitempty"`
	// HostedDomain is the Workspace domain, empty for consumer accounts.
	HostedDomain string `json:"hd,omitempty"`
}
