package main

import (
	"strings"
	"testing"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	id, token, err := auth.Register("commander1", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id == 0 || token == "" {
		t.Fatal("register should return an id and a token")
	}

	gotID, gotName, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if gotID != id || gotName != "commander1" {
		t.Errorf("token claims mismatch: %d %q", gotID, gotName)
	}

	loginID, loginToken, err := auth.Login("commander1", "hunter2hunter2", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loginID != id || loginToken == "" {
		t.Error("login should return the same account")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)
	auth.Register("commander2", "correcthorse")

	if _, _, err := auth.Login("commander2", "wrongpassword", "10.0.0.2"); err == nil {
		t.Error("wrong password should be rejected")
	}
	if _, _, err := auth.Login("ghost", "whatever123", "10.0.0.2"); err == nil {
		t.Error("unknown username should be rejected")
	}
}

func TestRegisterValidation(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	if _, _, err := auth.Register("a", "longenoughpass"); err == nil {
		t.Error("short username should be rejected")
	}
	if _, _, err := auth.Register("commander3", "short"); err == nil {
		t.Error("short password should be rejected")
	}

	auth.Register("commander4", "longenoughpass")
	if _, _, err := auth.Register("commander4", "longenoughpass"); err == nil {
		t.Error("duplicate username should be rejected")
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)
	_, token, err := auth.Register("commander5", "longenoughpass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := auth.ValidateToken(token + "x"); err == nil {
		t.Error("tampered token should be rejected")
	}
	if _, _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token should be rejected")
	}

	// A token signed under a different secret fails here
	other := NewAuth(openTestDB(t))
	_, foreign, _ := other.Register("commander5", "longenoughpass")
	if _, _, err := auth.ValidateToken(foreign); err == nil {
		t.Error("token from another secret should be rejected")
	}
}

func TestGenerateGuestName(t *testing.T) {
	name := GenerateGuestName()
	if !strings.HasPrefix(name, "Guest_") {
		t.Errorf("expected Guest_ prefix, got %q", name)
	}
}

func TestGuestLogin(t *testing.T) {
	db := openTestDB(t)
	auth := NewAuth(db)

	id, name, token, err := auth.GuestLogin()
	if err != nil {
		t.Fatalf("GuestLogin: %v", err)
	}
	if id == 0 || token == "" || !strings.HasPrefix(name, "Guest_") {
		t.Fatalf("guest login returned %d %q", id, name)
	}

	gotID, gotName, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if gotID != id || gotName != name {
		t.Errorf("guest token claims mismatch: %d %q", gotID, gotName)
	}

	cmdr, err := db.GetCommanderByID(id)
	if err != nil || cmdr == nil {
		t.Fatalf("GetCommanderByID: %v", err)
	}
	if !cmdr.IsGuest {
		t.Error("guest account should be flagged is_guest")
	}

	// No password behind the account, so login must fail
	if _, _, err := auth.Login(name, "anything", "10.0.0.1"); err == nil {
		t.Error("login with a guest name should be rejected")
	}

	id2, name2, _, err := auth.GuestLogin()
	if err != nil {
		t.Fatalf("second GuestLogin: %v", err)
	}
	if id2 == id || name2 == name {
		t.Error("each guest login should mint a distinct account")
	}
}
