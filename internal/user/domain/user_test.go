package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	u := &User{Email: "a@b.com"}
	if err := u.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if u.Role != UserRoleOrganizer {
		t.Errorf("default role = %q, want organizer", u.Role)
	}
	if u.Status != UserStatusActive {
		t.Errorf("default status = %q, want active", u.Status)
	}
}

func TestValidate_RequiresEmail(t *testing.T) {
	u := &User{}
	if err := u.Validate(); err == nil {
		t.Error("Validate should reject empty email")
	}
}

func TestHasPassword(t *testing.T) {
	if (&User{}).HasPassword() {
		t.Error("empty hash should report no password")
	}
	if !(&User{PasswordHash: "$2a$10$x"}).HasPassword() {
		t.Error("non-empty hash should report a password")
	}
}

func TestToPublic_RedactsHash(t *testing.T) {
	u := &User{
		ID:           "u1",
		Email:        "a@b.com",
		Name:         "A",
		PasswordHash: "$2a$10$secret",
		Role:         UserRoleOrganizer,
		Status:       UserStatusActive,
	}
	b, err := json.Marshal(u.ToPublic())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "secret") {
		t.Errorf("public view leaks password hash: %s", b)
	}
	if u.ToPublic().Email != "a@b.com" {
		t.Error("public view should carry email")
	}
	var nilUser *User
	if nilUser.ToPublic() != nil {
		t.Error("ToPublic on nil should be nil")
	}
}
