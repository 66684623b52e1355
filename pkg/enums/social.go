package enums

import "fmt"

// PostStatus tracks the lifecycle of a scheduled social post.
type PostStatus string

const (
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
	PostStatusCancelled PostStatus = "cancelled"
)

var validPostStatuses = []PostStatus{
	PostStatusScheduled,
	PostStatusPublished,
	PostStatusFailed,
	PostStatusCancelled,
}

// String implements fmt.Stringer.
func (s PostStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PostStatus.
func (s PostStatus) IsValid() bool {
	for _, candidate := range validPostStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePostStatus converts raw input into a PostStatus.
func ParsePostStatus(value string) (PostStatus, error) {
	for _, candidate := range validPostStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid post status %q", value)
}
