package postgres

import (
	"fmt"
	"net/url"

	"github.com/RuleWorld/PyBioNetGen-sub000/config"
)

// DSN builds a lib/pq connection string. Values are quoted so passwords may
// contain spaces.
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password='%s' dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, escape(cfg.Password), cfg.Name,
	)
}

// URL is the same target in postgres:// form, for logging with the password
// redacted.
func URL(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(cfg.User),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     cfg.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func escape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
