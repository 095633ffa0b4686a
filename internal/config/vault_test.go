package config

import (
	"os"
	"path/filepath"
	"testing"

	"resumeforge/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

func TestResolveVaultToken(t *testing.T) {
	logger := newTestLogger()

	t.Run("token from config", func(t *testing.T) {
		config := VaultConfig{
			Token: "direct-token",
		}

		token, err := resolveVaultToken(config, logger)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		tokenFile := filepath.Join(tmpDir, "vault-token")
		err := os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600)
		require.NoError(t, err)

		config := VaultConfig{
			TokenFile: tokenFile,
		}

		token, err := resolveVaultToken(config, logger)
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token) // Should be trimmed
	})

	t.Run("missing token file", func(t *testing.T) {
		config := VaultConfig{
			TokenFile: "/nonexistent/token/file",
		}

		_, err := resolveVaultToken(config, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		config := VaultConfig{}

		_, err := resolveVaultToken(config, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})

	t.Run("empty token from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		tokenFile := filepath.Join(tmpDir, "empty-token")
		err := os.WriteFile(tokenFile, []byte("   \n  \n"), 0600)
		require.NoError(t, err)

		config := VaultConfig{
			TokenFile: tokenFile,
		}

		_, err = resolveVaultToken(config, logger)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "vault token is required")
	})
}

func TestNewVaultClientDisabled(t *testing.T) {
	logger := newTestLogger()

	vc, err := NewVaultClient(VaultConfig{Enabled: false}, logger)
	assert.NoError(t, err)
	assert.Nil(t, vc)
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	logger := newTestLogger()

	config := &Config{
		Vault: VaultConfig{
			Enabled: false,
		},
		AI: AIConfig{
			APIKey: "config-key",
		},
	}

	err := config.ApplyVaultSecrets(logger)
	assert.NoError(t, err)
	assert.Equal(t, "config-key", config.AI.APIKey) // Untouched when vault is off
}

func TestGetSecretValueNilClient(t *testing.T) {
	var vc *VaultClient

	_, err := vc.GetSecretValue("secret/data/resumeforge/gemini", "key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "vault client not initialized")
}
