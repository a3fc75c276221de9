package models_test

import (
	"reflect"
	"testing"

	"citizenvoice/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestUserEnsureID_GeneratesUUID verifies that a user without an id gets a valid UUID.
func TestUserEnsureID_GeneratesUUID(t *testing.T) {
	// Arrange
	user := &models.User{Name: "KARASIRA AINE", Role: models.RoleCitizen}
	assert.Empty(t, user.ID)

	// Act
	user.EnsureID()

	// Assert
	parsed, err := uuid.Parse(user.ID)
	assert.NoError(t, err, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

// TestUserEnsureID_PreservesExistingID verifies that an existing id is kept.
func TestUserEnsureID_PreservesExistingID(t *testing.T) {
	user := &models.User{ID: "1"}

	user.EnsureID()

	assert.Equal(t, "1", user.ID)
}

func TestUserIsLeader(t *testing.T) {
	var nilUser *models.User
	assert.False(t, nilUser.IsLeader())
	assert.False(t, (&models.User{Role: models.RoleCitizen}).IsLeader())
	assert.True(t, (&models.User{Role: models.RoleLeader}).IsLeader())
}

// TestUserStructTags guards the JSON field names persisted under the "user" key.
func TestUserStructTags(t *testing.T) {
	userType := reflect.TypeOf(models.User{})

	want := map[string]string{
		"ID":           "id",
		"PhoneNumber":  "phoneNumber",
		"ProfileImage": "profileImage,omitempty",
		"Title":        "title,omitempty",
	}
	for field, tag := range want {
		f, found := userType.FieldByName(field)
		assert.True(t, found, "%s field should exist", field)
		assert.Equal(t, tag, f.Tag.Get("json"))
	}
}

func TestProfileUpdateApply(t *testing.T) {
	// Arrange
	name := "Aine K."
	lang := "Kinyarwanda"
	user := models.User{ID: "1", Name: "KARASIRA AINE", Email: "karasiraine5@gmail.com", Language: "English"}

	// Act
	models.ProfileUpdate{Name: &name, Language: &lang}.Apply(&user)

	// Assert
	assert.Equal(t, "Aine K.", user.Name)
	assert.Equal(t, "Kinyarwanda", user.Language)
	assert.Equal(t, "karasiraine5@gmail.com", user.Email, "nil fields are left alone")
}
