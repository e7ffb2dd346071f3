package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	mailmetrics "crmkit/internal/mailsanitizer/metrics"
	"crmkit/internal/mailsanitizer/models"
	"crmkit/pkg/platform/sentinel"
)

// DirectoryStore is the narrow directory surface the sanitizer depends on.
// FindUserByEmail matches the address exactly and returns
// sentinel.ErrNotFound (wrapped) for unknown addresses.
type DirectoryStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	IsGroupMember(ctx context.Context, userID uuid.UUID, groupID string) (bool, error)
}

// addressPattern extracts the bracketed address from a display-name-wrapped
// recipient ("Jane Doe <jane@example.com>"). A recipient that does not match
// is treated whole as the address; malformed input never errors.
var addressPattern = regexp.MustCompile(`<(.*)>`)

// Per-recipient outcomes reported to metrics.
const (
	outcomeSuffixed         = "suffixed"
	outcomeAlreadyProcessed = "already_processed"
	outcomeWhitelisted      = "whitelisted"
	outcomeGroupExempt      = "group_exempt"
)

// Sanitizer rewrites outbound recipient addresses so sandbox mail never
// reaches a real mailbox, exempting whitelisted addresses and members of
// authorized groups.
//
// The policy is captured at construction and never mutated, so a single
// Sanitizer is safe for concurrent use.
type Sanitizer struct {
	directory DirectoryStore
	policy    models.Policy
	logger    *slog.Logger
	metrics   *mailmetrics.Metrics
	tracer    trace.Tracer
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithLogger sets the sanitizer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sanitizer) {
		s.logger = logger
	}
}

// WithMetrics attaches module metrics.
func WithMetrics(m *mailmetrics.Metrics) Option {
	return func(s *Sanitizer) {
		s.metrics = m
	}
}

// New constructs a Sanitizer with the given directory and policy. An empty
// policy suffix falls back to models.DefaultSuffix.
func New(directory DirectoryStore, policy models.Policy, opts ...Option) (*Sanitizer, error) {
	if directory == nil {
		return nil, fmt.Errorf("directory store is required")
	}
	if policy.Suffix == "" {
		policy.Suffix = models.DefaultSuffix
	}

	s := &Sanitizer{
		directory: directory,
		policy:    policy,
		logger:    slog.Default(),
		tracer:    otel.Tracer("crmkit/mailsanitizer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sanitize processes each recipient independently and returns the results
// joined with commas in the original order. Empty or nil input yields "".
//
// Per recipient the skip rules run in fixed order — already suffixed,
// whitelisted, member of an exempt group — and the first applicable rule
// wins; otherwise the suffix is appended to the address portion only.
// Display names containing commas are not escaped in the joined output; the
// original wire format is preserved.
//
// Directory failures propagate to the caller untouched.
func (s *Sanitizer) Sanitize(ctx context.Context, recipients []string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "mailsanitizer.Sanitize")
	defer span.End()
	start := time.Now()

	if len(recipients) == 0 {
		return "", nil
	}

	out := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		sanitized, outcome, err := s.sanitizeOne(ctx, recipient)
		if err != nil {
			return "", err
		}
		s.count(outcome)
		out = append(out, sanitized)
	}

	if s.metrics != nil {
		s.metrics.ObserveSanitize(start)
	}
	return strings.Join(out, ","), nil
}

// sanitizeOne applies the skip rules to a single recipient and returns the
// possibly modified recipient along with the outcome label.
func (s *Sanitizer) sanitizeOne(ctx context.Context, recipient string) (string, string, error) {
	address := recipient
	wrapped := false
	if m := addressPattern.FindStringSubmatch(recipient); m != nil {
		address = m[1]
		wrapped = true
	}

	// Rule A: a recipient that already carries the suffix marker went
	// through sanitization before; leave it untouched.
	if strings.Contains(address, s.policy.Suffix) {
		return recipient, outcomeAlreadyProcessed, nil
	}

	// Rule B: whitelist membership by lowercased substring containment.
	// This is an exact port of the original check, imprecision included: an
	// address embedded in a longer whitelisted address also matches.
	if strings.Contains(strings.ToLower(s.policy.Whitelist), strings.ToLower(address)) {
		return recipient, outcomeWhitelisted, nil
	}

	// Rule C: members of any exempt group keep their real address. An
	// unknown address means the rule does not apply — fall through to the
	// rewrite. At most one directory lookup per recipient.
	user, err := s.directory.FindUserByEmail(ctx, address)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return "", "", fmt.Errorf("sanitize recipient: %w", err)
	}
	if user != nil {
		for _, groupID := range s.policy.ExemptGroupIDs {
			member, err := s.directory.IsGroupMember(ctx, user.ID, groupID)
			if err != nil {
				return "", "", fmt.Errorf("sanitize recipient: %w", err)
			}
			if member {
				return recipient, outcomeGroupExempt, nil
			}
		}
	}

	// No exemption applies: append the suffix to the address portion. For
	// the wrapped form only the bracketed substring changes, preserving the
	// display name.
	if wrapped {
		rewritten := strings.Replace(recipient, "<"+address+">", "<"+address+s.policy.Suffix+">", 1)
		return rewritten, outcomeSuffixed, nil
	}
	return recipient + s.policy.Suffix, outcomeSuffixed, nil
}

func (s *Sanitizer) count(outcome string) {
	if s.metrics != nil {
		s.metrics.CountRecipient(outcome)
	}
}
