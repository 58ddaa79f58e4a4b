package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a node ID supplied on the command line or over HTTP.
//
// The rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Existence of the node is checked by the caller.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	return nil
}

// idPrefixRegex matches prefixes usable in generated IDs of the form "<prefix>-<n>".
var idPrefixRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidateIDPrefix validates the prefix used for generated node IDs.
// Dashes are rejected so that "<prefix>-<n>" parses unambiguously.
func ValidateIDPrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidInput, "id prefix cannot be empty")
	}

	if len(prefix) > 64 {
		return New(ErrCodeInvalidInput, "id prefix too long (max 64 characters)")
	}

	if !idPrefixRegex.MatchString(prefix) {
		return New(ErrCodeInvalidInput, "invalid id prefix: %q", prefix)
	}

	return nil
}

// ValidatePath validates a document path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// sessionKeyRegex matches autosave session keys.
var sessionKeyRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSessionKey validates an autosave session key. Keys become part of
// file names, so path separators and traversal sequences are rejected.
func ValidateSessionKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "session key cannot be empty")
	}

	if len(key) > 128 {
		return New(ErrCodeInvalidInput, "session key too long (max 128 characters)")
	}

	if strings.Contains(key, "..") || !sessionKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid session key: %q", key)
	}

	return nil
}
