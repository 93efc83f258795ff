package services

import (
	"testing"

	"coinhunt/internal/models"
)

func TestAuthenticationRoundtrip(t *testing.T) {
	authentication, err := NewAuthentication("test-secret")
	if err != nil {
		t.Fatal(err)
	}

	user := &models.UserFromAuth{
		ID:       "student-1",
		Username: "somsak",
		FullName: "Somsak J.",
		Role:     models.RoleStudent,
	}

	token, err := authentication.CreateToken(user)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := authentication.Validate(token)
	if err != nil {
		t.Fatal(err)
	}

	if parsed.ID != user.ID || parsed.Username != user.Username || parsed.Role != user.Role {
		t.Errorf("Validate() = %+v, want %+v", parsed, user)
	}
}

func TestAuthenticationRejectsBadToken(t *testing.T) {
	authentication, _ := NewAuthentication("test-secret")

	if _, err := authentication.Validate("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}

	other, _ := NewAuthentication("other-secret")
	token, err := other.CreateToken(&models.UserFromAuth{ID: "student-1"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := authentication.Validate(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}
