package creator

import (
	"fmt"
	"os"
)

// UserNameSource supplies a configured user name, such as git's user.name.
type UserNameSource interface {
	GetUserName() (string, error)
}

// GetAuthor returns the name recorded as a deck's author using the
// fallback chain:
// 1. $WEBSLIDE_AUTHOR environment variable
// 2. git config user.name (skipped if git is unavailable)
// 3. $USER environment variable
func GetAuthor(names UserNameSource) (string, error) {
	if author := os.Getenv("WEBSLIDE_AUTHOR"); author != "" {
		return author, nil
	}

	if names != nil {
		if name, err := names.GetUserName(); err == nil && name != "" {
			return name, nil
		}
	}

	if user := os.Getenv("USER"); user != "" {
		return user, nil
	}

	return "", fmt.Errorf("cannot determine author: set $WEBSLIDE_AUTHOR, configure 'git config user.name', or set $USER")
}
