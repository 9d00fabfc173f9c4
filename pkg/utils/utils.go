package utils

import (
	"fmt"
	"strings"

	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/google/uuid"
)

// GenerateUUID generates uuid v4
func GenerateUUID() string {
	uuidV4 := uuid.New() // panics on error
	return strings.Map(func(r rune) rune {
		if r == '-' {
			return -1
		}
		return r
	}, uuidV4.String())
}

// CommitLockKey returns the lease key guarding a commit's check set and coverage.
func CommitLockKey(repoID int64, sha string) string {
	return fmt.Sprintf("commit:%d:%s", repoID, sha)
}

// TruncateDescription cuts a status description down to the length the status sink accepts.
func TruncateDescription(desc string) string {
	r := []rune(desc)
	if len(r) <= global.MaxDescriptionLength {
		return desc
	}
	return string(r[:global.MaxDescriptionLength-3]) + "..."
}

// CommitURL returns the dashboard page of a commit.
func CommitURL(dashboardURL string, repoID int64, sha string) string {
	if dashboardURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/repos/%d/commits/%s", strings.TrimSuffix(dashboardURL, "/"), repoID, sha)
}
