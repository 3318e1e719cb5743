package bookconv

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// metadataAllowlist holds the only field names that may reach a tool as
// --metadata, whether they come from typed options or the free-form map.
var metadataAllowlist = map[string]struct{}{
	"title":     {},
	"author":    {},
	"date":      {},
	"language":  {},
	"publisher": {},
}

// safeValue accepts letters, combining marks, digits, whitespace and - . , ! ? ' " ( ).
var safeValue = regexp.MustCompile(`^[\p{L}\p{M}\p{N}\s\-.,!?'"()]+$`)

// forbiddenChars are rejected even if safeValue would let them through.
const forbiddenChars = ";|&$`\\\n\r\x00"

// SanitizationResult is the outcome of checking one metadata pair.
// The zero value is Rejected.
type SanitizationResult struct {
	value string
	safe  bool
}

// Safe returns an accepted result carrying value.
func Safe(value string) SanitizationResult { return SanitizationResult{value: value, safe: true} }

// Rejected returns a rejected result.
func Rejected() SanitizationResult { return SanitizationResult{} }

// IsSafe reports whether the pair was accepted.
func (r SanitizationResult) IsSafe() bool { return r.safe }

// Value returns the trimmed value and whether it was accepted.
func (r SanitizationResult) Value() (string, bool) { return r.value, r.safe }

// rejection reasons, logged as the "reason" field.
const (
	reasonNotAllowlisted = "not_allowlisted"
	reasonUnsafeValue    = "unsafe_value"
	reasonEmptyValue     = "empty_value"
)

// Sanitize checks one metadata key/value pair against the field allowlist
// and the safe character policy. It never fails the caller: a rejected pair
// is logged (an Error naming the rejection, then a Warn that the field is
// skipped) and the conversion continues without it.
func (c *Converter) Sanitize(key, value string) SanitizationResult {
	return sanitize(c.logger, key, value)
}

// SanitizeMetadata is Sanitize for callers without a Converter.
// Rejections are logged to logger, or to the default logger when nil.
func SanitizeMetadata(logger *zap.Logger, key, value string) SanitizationResult {
	if logger == nil {
		logger = defaultLogger()
	}
	return sanitize(logger, key, value)
}

func sanitize(logger *zap.Logger, key, value string) SanitizationResult {
	if _, ok := metadataAllowlist[key]; !ok {
		logger.Error("[SECURITY] Rejected metadata field not in allowlist: "+key,
			zap.String("field", key),
			zap.String("reason", reasonNotAllowlisted),
		)
		warnSkipped(logger, key, reasonNotAllowlisted)
		return Rejected()
	}

	if !safeValue.MatchString(value) || strings.ContainsAny(value, forbiddenChars) {
		logger.Error("[SECURITY] Rejected unsafe metadata value for field: "+key,
			zap.String("field", key),
			zap.String("reason", reasonUnsafeValue),
			zap.Int("value_len", len(value)),
		)
		warnSkipped(logger, key, reasonUnsafeValue)
		return Rejected()
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		logger.Error("[SECURITY] Rejected empty metadata value for field: "+key,
			zap.String("field", key),
			zap.String("reason", reasonEmptyValue),
		)
		warnSkipped(logger, key, reasonEmptyValue)
		return Rejected()
	}

	return Safe(trimmed)
}

func warnSkipped(logger *zap.Logger, key, reason string) {
	logger.Warn("[SECURITY] Skipping unsafe metadata field: "+key,
		zap.String("field", key),
		zap.String("reason", reason),
	)
}
