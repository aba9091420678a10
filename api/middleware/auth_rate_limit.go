package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/agropazar/agropazar-backend/api/responses"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy is a fixed-window throttle for one auth surface,
// counted per client IP and per submitted email.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
// A zero window or all-zero limits disable the policy entirely.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{
		name:       name,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// AuthRateLimit enforces the policy's counters ahead of the login and
// register handlers. Emails are hashed before they become redis keys or log
// fields.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				ip := clientIP(r)
				if ip != "" {
					key := "rl:ip:" + policy.name + ":" + ip
					blocked, err := overLimit(ctx, store, key, policy.window, int64(policy.ipLimit))
					if err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if blocked {
						rejectThrottled(ctx, logg, w, policy, "ip")
						return
					}
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := submittedEmail(body); email != "" {
					key := "rl:email:" + policy.name + ":" + hashValue(email)
					blocked, err := overLimit(ctx, store, key, policy.window, int64(policy.emailLimit))
					if err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if blocked {
						rejectThrottled(ctx, logg, w, policy, "email")
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func overLimit(ctx context.Context, store rateLimiterStore, key string, window time.Duration, limit int64) (bool, error) {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, err
	}
	return count > limit, nil
}

func rejectThrottled(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, scope string) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"policy":         policy.name,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
}

// clientIP prefers proxy headers over the socket address.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func submittedEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
