package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"lms-backend/internal/notification/domain"
)

// @Name or @First Last
var mentionPattern = regexp.MustCompile(`@(\w+(?:\s+\w+)?)`)

type mentionUsecase struct {
	fanout Fanout
	users  UserDirectory
}

func NewMentionUsecase(fanout Fanout, users UserDirectory) MentionUsecase {
	return &mentionUsecase{
		fanout: fanout,
		users:  users,
	}
}

// NotifyMentioned sends one notification per tagged user. The author and
// unknown names are skipped, and a user tagged twice is notified once.
func (m *mentionUsecase) NotifyMentioned(ctx context.Context, in MentionInput) ([]*domain.Notification, error) {
	seen := map[string]bool{in.AuthorID: true}
	var sent []*domain.Notification

	for _, match := range mentionPattern.FindAllStringSubmatch(in.Content, -1) {
		userID, err := m.resolve(match[1])
		if err != nil {
			return sent, fmt.Errorf("failed to resolve mention %q: %w", match[1], err)
		}
		if userID == "" || seen[userID] {
			continue
		}
		seen[userID] = true

		authorID := in.AuthorID
		n, err := m.fanout.NotifyUser(ctx, NotifyInput{
			UserID:     userID,
			Type:       domain.TypeMention,
			Title:      "You were mentioned",
			Message:    fmt.Sprintf("%s mentioned you in a comment", in.AuthorName),
			Link:       in.Link,
			FromUserID: &authorID,
		})
		if err != nil {
			return sent, err
		}
		sent = append(sent, n)
	}
	return sent, nil
}

// resolve tries the two-word capture first, then its first word: "@Ana thanks"
// captures "Ana thanks".
func (m *mentionUsecase) resolve(capture string) (string, error) {
	fields := strings.Fields(capture)
	id, err := m.users.FindIDByName(strings.Join(fields, " "))
	if err != nil || id != "" || len(fields) < 2 {
		return id, err
	}
	return m.users.FindIDByName(fields[0])
}
