// Package scope turns role-tagged tabular input into the user set a tag
// action will apply to, plus the tags available for selection.
package scope

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Column roles recognized in the input header. peopleUserId is the only
// required role; without it both the user and tag sets are empty.
const (
	RoleUserID      = "peopleUserId"
	RoleDisplayName = "peopleDisplayName"
	RoleEmail       = "peopleEmail"
	RoleTagID       = "tagsTagId"
	RoleTagName     = "tagsTagName"
)

// User is one person in scope, deduplicated by UserID within a load.
type User struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Tag is an assignable tag, deduplicated by TagID.
type Tag struct {
	TagID   string `json:"tag_id"`
	TagName string `json:"tag_name"`
}

// Scope holds the parsed users and tags of one data load. Tags are sorted by
// name with an English collator, matching the selector ordering users see.
type Scope struct {
	Users []User
	Tags  []Tag
}

// ParseFile reads and parses a role-tagged CSV file.
func ParseFile(path string) (*Scope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scope file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads role-tagged CSV from r. The header row names the role of each
// column; unknown columns are ignored. A missing peopleUserId role yields an
// empty scope rather than an error, mirroring an unbound data field.
func Parse(r io.Reader) (*Scope, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &Scope{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scope header: %w", err)
	}

	roleIdx := make(map[string]int, len(header))
	for i, col := range header {
		roleIdx[strings.TrimSpace(col)] = i
	}

	iUserID, ok := roleIdx[RoleUserID]
	if !ok {
		return &Scope{}, nil
	}
	iName, hasName := roleIdx[RoleDisplayName]
	iEmail, hasEmail := roleIdx[RoleEmail]
	iTagID, hasTagID := roleIdx[RoleTagID]
	iTagName, hasTagName := roleIdx[RoleTagName]

	field := func(rec []string, idx int) string {
		if idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	userSeen := make(map[string]bool)
	tagSeen := make(map[string]bool)
	s := &Scope{}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read scope row: %w", err)
		}

		userID := field(rec, iUserID)
		if userID == "" {
			continue
		}

		if !userSeen[userID] {
			userSeen[userID] = true
			u := User{UserID: userID}
			if hasName {
				u.DisplayName = field(rec, iName)
			}
			if hasEmail {
				u.Email = field(rec, iEmail)
			}
			s.Users = append(s.Users, u)
		}

		if hasTagID && hasTagName {
			tagID := field(rec, iTagID)
			if tagID != "" && !tagSeen[tagID] {
				tagSeen[tagID] = true
				s.Tags = append(s.Tags, Tag{TagID: tagID, TagName: field(rec, iTagName)})
			}
		}
	}

	coll := collate.New(language.English)
	sort.SliceStable(s.Tags, func(a, b int) bool {
		return coll.CompareString(s.Tags[a].TagName, s.Tags[b].TagName) < 0
	})

	return s, nil
}

// FindTag returns the tag with the given id, or nil if not present.
func (s *Scope) FindTag(tagID string) *Tag {
	for i := range s.Tags {
		if s.Tags[i].TagID == tagID {
			return &s.Tags[i]
		}
	}
	return nil
}

// UserIDs returns the ids of every user in scope, in load order.
func (s *Scope) UserIDs() []string {
	ids := make([]string, len(s.Users))
	for i, u := range s.Users {
		ids[i] = u.UserID
	}
	return ids
}
