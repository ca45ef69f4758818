package identity

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	token, exp, err := Issue("u1", RoleStudent, "CSE", 2, "campushub-test", "secret", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if exp.Before(time.Now()) {
		t.Fatalf("expiry in the past: %v", exp)
	}

	claims, err := Parse(token, "secret", "campushub-test")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "u1" || claims.Role != "student" || claims.Department != "CSE" || claims.Year != 2 {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejects(t *testing.T) {
	token, _, err := Issue("u1", RoleStudent, "CSE", 2, "campushub-test", "secret", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Parse(token, "wrong-key", "campushub-test"); err == nil {
		t.Fatal("accepted token signed with another key")
	}
	if _, err := Parse(token, "secret", "someone-else"); err == nil {
		t.Fatal("accepted token from another issuer")
	}

	expired, _, err := Issue("u1", RoleStudent, "CSE", 2, "campushub-test", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	if _, err := Parse(expired, "secret", "campushub-test"); err == nil {
		t.Fatal("accepted expired token")
	}
}
