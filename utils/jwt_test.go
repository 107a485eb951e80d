package utils

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := CreateToken(42, "guest@example.com", "user")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "guest@example.com" || claims.Role != "user" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := ValidateJWT(""); err == nil {
		t.Error("empty token accepted")
	}
	if _, err := ValidateJWT("not.a.token"); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := CreateToken(1, "a@b.c", "user")
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := ValidateJWT(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}
