package config

import "time"

// AuthConfig holds the token and password settings. The access and refresh
// secrets must differ.
type AuthConfig struct {
	AccessSecret          string
	AccessTTL             time.Duration
	RefreshSecret         string
	RefreshTTL            time.Duration
	Issuer                string
	VerificationKeySecret string
	CookieSecure          bool
	BcryptCost            int
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		AccessSecret:          getEnv("ACCESS_TOKEN_SECRET", ""),
		AccessTTL:             getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshSecret:         getEnv("REFRESH_TOKEN_SECRET", ""),
		RefreshTTL:            getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		Issuer:                getEnv("TOKEN_ISSUER", "storefront"),
		VerificationKeySecret: getEnv("VERIFICATION_KEY_SECRET", ""),
		CookieSecure:          getEnvBool("COOKIE_SECURE", true),
		BcryptCost:            getEnvInt("BCRYPT_COST", 10),
	}
}

func (a AuthConfig) validate() error {
	switch {
	case a.AccessSecret == "":
		return invalid("ACCESS_TOKEN_SECRET", "required")
	case a.RefreshSecret == "":
		return invalid("REFRESH_TOKEN_SECRET", "required")
	case a.AccessSecret == a.RefreshSecret:
		return invalid("REFRESH_TOKEN_SECRET", "must differ from ACCESS_TOKEN_SECRET")
	case a.VerificationKeySecret == "":
		return invalid("VERIFICATION_KEY_SECRET", "required")
	case a.AccessTTL <= 0 || a.RefreshTTL <= 0:
		return invalid("ACCESS_TOKEN_TTL", "token lifetimes must be positive")
	case a.BcryptCost < 4 || a.BcryptCost > 31:
		return invalid("BCRYPT_COST", "must be between 4 and 31")
	}
	return nil
}

// DeliveryMode selects how OTP emails leave the process.
type DeliveryMode string

const (
	// DeliverySync sends inline and awaits the provider.
	DeliverySync DeliveryMode = "sync"
	// DeliveryQueue hands the mail to the redis job queue.
	DeliveryQueue DeliveryMode = "queue"
)

type OTPConfig struct {
	TTL             time.Duration
	CodeLength      int
	ResendCooldown  time.Duration
	DeliveryTimeout time.Duration
	DeliveryRetries int
	DeliveryMode    DeliveryMode
}

func loadOTPConfig() OTPConfig {
	return OTPConfig{
		TTL:             getEnvDuration("OTP_TTL", 5*time.Minute),
		CodeLength:      getEnvInt("OTP_CODE_LENGTH", 6),
		ResendCooldown:  getEnvDuration("OTP_RESEND_COOLDOWN", 0),
		DeliveryTimeout: getEnvDuration("OTP_DELIVERY_TIMEOUT", 10*time.Second),
		DeliveryRetries: getEnvInt("OTP_DELIVERY_RETRIES", 2),
		DeliveryMode:    DeliveryMode(getEnv("OTP_DELIVERY_MODE", string(DeliverySync))),
	}
}

func (o OTPConfig) validate() error {
	switch {
	case o.TTL <= 0:
		return invalid("OTP_TTL", "must be positive")
	case o.CodeLength < 4 || o.CodeLength > 10:
		return invalid("OTP_CODE_LENGTH", "must be between 4 and 10")
	case o.DeliveryMode != DeliverySync && o.DeliveryMode != DeliveryQueue:
		return invalid("OTP_DELIVERY_MODE", "must be sync or queue")
	}
	return nil
}

// OwnerConfig seeds the single owner account at startup. An empty email
// disables the bootstrap.
type OwnerConfig struct {
	Email     string
	Password  string
	FirstName string
}

func loadOwnerConfig() OwnerConfig {
	return OwnerConfig{
		Email:     getEnv("OWNER_EMAIL", ""),
		Password:  getEnv("OWNER_PASSWORD", ""),
		FirstName: getEnv("OWNER_FIRST_NAME", "Owner"),
	}
}

func (o OwnerConfig) Enabled() bool {
	return o.Email != "" && o.Password != ""
}
