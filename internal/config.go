package internal

import (
	"chat-relay/domain"
	"fmt"
	"strings"
	"time"
)

// Config is read from the environment by the relay binary.
type Config struct {
	Host       string `env:"HOST,default=0.0.0.0"`
	Port       int    `env:"PORT,default=8080"`
	HealthPort int    `env:"HEALTH_PORT,default=8090"`
	DebugPort  int    `env:"DEBUG_PORT,default=8081"`

	BadgerFilepath string  `env:"BADGER_FILEPATH,required=true"`
	SqliteFilepath string  `env:"SQLITE_FILEPATH,default=data/confessions.db"`
	RedisURL       *string `env:"REDIS_URL"`
	LimitMessages  *int    `env:"LIMIT_MESSAGES"`

	VerifyAPI      *string `env:"VERIFY_API"`
	JWTSecret      string  `env:"JWT_SECRET"`
	IdentitySuffix *string `env:"IDENTITY_SUFFIX"`

	VerifyTimeout         time.Duration `env:"VERIFY_TIMEOUT,default=5s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=5s"`
	HeartbeatInterval     time.Duration `env:"HEARTBEAT_INTERVAL,default=30s"`
	RestartInterval       time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	CloseReplacedSessions bool          `env:"CLOSE_REPLACED_SESSIONS,default=true"`

	AllowedOrigins  string `env:"ALLOWED_ORIGINS,default=http://localhost:5173;https://campustown.in"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`
	LogLevel        string `env:"LOG_LEVEL,default=INFO"`
}

// Validate checks the combinations the environment decoder cannot express.
func (c Config) Validate() error {
	if c.VerifyAPI == nil && c.JWTSecret == "" {
		return fmt.Errorf("either VERIFY_API or JWT_SECRET must be set")
	}
	if len(c.Origins()) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must name at least one origin")
	}
	return nil
}

// Origins splits ALLOWED_ORIGINS, entries are separated by semicolons or commas.
func (c Config) Origins() []string {
	fields := strings.FieldsFunc(c.AllowedOrigins, func(r rune) bool { return r == ';' || r == ',' })
	origins := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			origins = append(origins, f)
		}
	}
	return origins
}

// Suffix is removed from display names to build routing identities. Unset means the campus
// default, an empty value keeps names untouched.
func (c Config) Suffix() string {
	if c.IdentitySuffix == nil {
		return domain.DefaultIdentitySuffix
	}
	return *c.IdentitySuffix
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) HealthAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HealthPort)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
