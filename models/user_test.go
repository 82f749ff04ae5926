package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdate_Apply(t *testing.T) {
	phone := "+27825551234"
	u := User{ID: "user-1", Name: "Thandi", Phone: &phone, Metadata: map[string]any{"theme": "dark"}}

	name := "Thandi M."
	newMeta := map[string]any{"theme": "light"}
	got := ProfileUpdate{Name: &name, Metadata: newMeta}.Apply(u)

	assert.Equal(t, "Thandi M.", got.Name)
	assert.Equal(t, "Thandi", u.Name)
	assert.Equal(t, "+27825551234", *got.Phone)

	newMeta["theme"] = "neon"
	assert.Equal(t, "light", got.Metadata["theme"])
	assert.Equal(t, "dark", u.Metadata["theme"])

	*got.Phone = "+27000000000"
	assert.Equal(t, "+27825551234", phone)
}

func TestProfileUpdate_ApplyKeepsMetadataWhenAbsent(t *testing.T) {
	u := User{Metadata: map[string]any{"theme": "dark"}}

	got := ProfileUpdate{}.Apply(u)
	got.Metadata["theme"] = "light"

	assert.Equal(t, "dark", u.Metadata["theme"])
}

func TestUser_Clone(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	avatar := "https://cdn.example.co.za/a.png"
	u := User{AvatarURL: &avatar, LastLoginAt: &at}

	c := u.Clone()
	require.NotNil(t, c.AvatarURL)
	require.NotNil(t, c.LastLoginAt)
	assert.NotSame(t, u.AvatarURL, c.AvatarURL)
	assert.NotSame(t, u.LastLoginAt, c.LastLoginAt)
	assert.Nil(t, c.Metadata)
}

func TestSessionIdentity_Clone(t *testing.T) {
	confirmed := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	id := SessionIdentity{ID: "user-1", EmailConfirmedAt: &confirmed, UserMetadata: map[string]any{"name": "Thandi"}}

	c := id.Clone()
	c.UserMetadata["name"] = "Sipho"

	assert.Equal(t, "Thandi", id.UserMetadata["name"])
	assert.NotSame(t, id.EmailConfirmedAt, c.EmailConfirmedAt)
	assert.True(t, c.IsVerified())
}
