package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Client reads settings from the user's git configuration.
type Client struct {
	// Command is the git executable; "git" when empty.
	Command string
}

// NewClient creates a new git client.
func NewClient() *Client {
	return &Client{}
}

// GetUserName returns the configured git user.name.
func (c *Client) GetUserName() (string, error) {
	command := c.Command
	if command == "" {
		command = "git"
	}
	out, err := exec.Command(command, "config", "user.name").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get git user.name: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
