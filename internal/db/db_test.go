package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestArticleType(t *testing.T) {
	// Verify Article struct can be instantiated
	a := Article{
		Keyword:  "home coffee roasting",
		Content:  "# Roasting at Home",
		Language: "en",
	}

	assert.Equal(t, "home coffee roasting", a.Keyword)
	assert.Equal(t, "en", a.Language)
	assert.Equal(t, uuid.Nil, a.ID)
	assert.True(t, a.CreatedAt.IsZero())
}

func TestUserType(t *testing.T) {
	u := User{
		Email:        "writer@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Now(),
	}

	assert.Equal(t, "writer@example.com", u.Email)
	assert.NotEmpty(t, u.PasswordHash)
}
