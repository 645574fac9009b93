package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionCatalogEntriesAreValid(t *testing.T) {
	assert.NotEmpty(t, PermissionCatalog)

	seen := make(map[string]bool)
	for _, entry := range PermissionCatalog {
		assert.NotEmpty(t, entry.Key)
		assert.NotEmpty(t, entry.Label, "entry %s has no label", entry.Key)
		assert.True(t, IsValidPermission(entry.Key))
		assert.False(t, seen[entry.Key], "duplicate catalog key %s", entry.Key)
		seen[entry.Key] = true
	}
}

func TestIsValidPermissionRejectsUnknownKeys(t *testing.T) {
	assert.True(t, IsValidPermission("manage_roles"))
	assert.False(t, IsValidPermission("fly_to_the_moon"))
	assert.False(t, IsValidPermission(""))
}
