package itsi

// Config holds connection settings for the Splunk ITSI REST API.
type Config struct {
	// BaseURL is the Splunk management URL, e.g. "https://splunk.example.com:8089".
	BaseURL string `mapstructure:"base_url" default:"https://localhost:8089"`
	// Token is a bearer token for authentication. Takes precedence over
	// SessionKey and Username/Password when set.
	Token string `mapstructure:"token" default:""`
	// SessionKey is a Splunk session key, sent as "Splunk <key>".
	SessionKey string `mapstructure:"session_key" default:""`
	// Username for basic authentication, used when no token or session key is set.
	Username string `mapstructure:"username" default:""`
	// Password for basic authentication.
	Password string `mapstructure:"password" default:""`
	// VerifySSL controls TLS certificate verification. Splunk management
	// ports commonly run with self-signed certificates.
	VerifySSL bool `mapstructure:"verify_ssl" default:"true"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// HasCredentials reports whether at least one authentication method is configured.
func (c Config) HasCredentials() bool {
	return c.Token != "" || c.SessionKey != "" || (c.Username != "" && c.Password != "")
}
