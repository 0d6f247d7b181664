package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{
			name: "администратор получает isAdmin=true",
			user: User{UID: "u1", Name: "Admin", Email: "admin@cartanga.com", Role: "admin"},
			want: `"isAdmin":true`,
		},
		{
			name: "обычный пользователь получает isAdmin=false",
			user: User{UID: "u2", Name: "Demo", Email: "demo@cartanga.com", Role: "user"},
			want: `"isAdmin":false`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.user)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
			// Роль и хэш пароля наружу не отдаются.
			assert.NotContains(t, string(data), `"role"`)
			assert.NotContains(t, string(data), "passwordHash")
		})
	}
}
