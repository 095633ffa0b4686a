package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	loadedPrompts   LoadedPrompts
	loadedPromptsMu sync.RWMutex
)

// LoadedPrompts holds the content of prompts loaded from files. File
// content takes priority over inline config prompts when the AI layer
// resolves which prompt to use.
type LoadedPrompts struct {
	SystemTailor string
	UserTailor   string
}

// GetLoadedPrompts returns a copy of the currently loaded prompt
// content in a thread-safe way. The watcher may replace the content
// at any time.
func GetLoadedPrompts() LoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()
	return loadedPrompts
}

// loadPromptsFromFiles loads custom prompts from external files if
// file paths are specified. Operation-level files win over global
// files.
func (c *Config) loadPromptsFromFiles() error {
	system := c.AI.Tailor.CustomPrompts.SystemPrompts.TailorFile
	if system == "" {
		system = c.AI.CustomPrompts.SystemPrompts.TailorFile
	}
	user := c.AI.Tailor.CustomPrompts.UserPrompts.TailorFile
	if user == "" {
		user = c.AI.CustomPrompts.UserPrompts.TailorFile
	}

	var loaded LoadedPrompts
	if system != "" {
		content, err := loadPromptFromFile(system, "system")
		if err != nil {
			return err
		}
		loaded.SystemTailor = content
	}
	if user != "" {
		content, err := loadPromptFromFile(user, "user")
		if err != nil {
			return err
		}
		loaded.UserTailor = content
	}

	loadedPromptsMu.Lock()
	loadedPrompts = loaded
	loadedPromptsMu.Unlock()
	return nil
}

// promptFilePaths returns the prompt files that are configured, for
// the hot-reload watcher.
func (c *Config) promptFilePaths() []string {
	var files []string
	for _, f := range []string{
		c.AI.Tailor.CustomPrompts.SystemPrompts.TailorFile,
		c.AI.CustomPrompts.SystemPrompts.TailorFile,
		c.AI.Tailor.CustomPrompts.UserPrompts.TailorFile,
		c.AI.CustomPrompts.UserPrompts.TailorFile,
	} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// loadPromptFromFile loads a prompt from a file with proper error handling
func loadPromptFromFile(filePath, promptType string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", promptType, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", promptType, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", promptType, absPath)
	}

	return trimmedContent, nil
}
