package distribution

// AuthMode selects which credential variant the store client uses.
// The selection is config-driven and fixed for the process lifetime.
type AuthMode string

const (
	AuthModeOAuth          AuthMode = "oauth"
	AuthModeServiceAccount AuthMode = "service_account"
)

// OAuthCredential is the user-consent variant: a client pair plus a
// long-lived refresh token obtained out of band.
type OAuthCredential struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// ServiceAccountCredential is the headless variant: a service-account
// key document and the scopes to mint tokens for.
type ServiceAccountCredential struct {
	KeyJSON []byte
	Scopes  []string
}

// Credentials is the tagged union of the two variants. Exactly one
// field is set, according to Mode. Loaded once at process start and
// read-only afterwards.
type Credentials struct {
	Mode           AuthMode
	OAuth          *OAuthCredential
	ServiceAccount *ServiceAccountCredential
}
