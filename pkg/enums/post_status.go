package enums

import "fmt"

// PostStatus controls blog post visibility on the public site.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

var validPostStatuses = []PostStatus{
	PostStatusDraft,
	PostStatusPublished,
}

func (s PostStatus) String() string {
	return string(s)
}

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
