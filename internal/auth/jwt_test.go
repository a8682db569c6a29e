package auth

import (
	"testing"
	"time"

	"github.com/serietrack/serietrack/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour, 4)
	person := domain.Person{ID: 42, Name: "Ana"}

	token, err := mgr.GenerateToken(person)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := mgr.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.PersonID != 42 {
		t.Fatalf("PersonID = %d, want 42", claims.PersonID)
	}
	if claims.Subject != "42" {
		t.Fatalf("Subject = %s, want 42", claims.Subject)
	}
	if claims.Name != "Ana" {
		t.Fatalf("Name = %s, want Ana", claims.Name)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour, 4).GenerateToken(domain.Person{ID: 1})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := NewManager("secret-b", time.Hour, 4).ValidateToken(token); err == nil {
		t.Fatalf("token signed with different secret should not validate")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute, 4)
	token, err := mgr.GenerateToken(domain.Person{ID: 1})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := mgr.ValidateToken(token); err == nil {
		t.Fatalf("expired token should not validate")
	}
}

func TestPasswordHashing(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour, 4)

	hash, err := mgr.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !mgr.CheckPassword(hash, "hunter2") {
		t.Fatalf("CheckPassword rejected matching password")
	}
	if mgr.CheckPassword(hash, "wrong") {
		t.Fatalf("CheckPassword accepted wrong password")
	}
}
