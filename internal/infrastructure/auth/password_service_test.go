package auth

import "testing"

func TestPasswordServiceImpl_HashAndVerify(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("pw123456")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hash == "pw123456" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !svc.Verify(hash, "pw123456") {
		t.Error("expected correct password to verify")
	}
	if svc.Verify(hash, "wrongpass") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestPasswordServiceImpl_HashesAreSalted(t *testing.T) {
	svc := NewPasswordService()

	h1, err := svc.Hash("pw123456")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	h2, err := svc.Hash("pw123456")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if h1 == h2 {
		t.Error("expected two hashes of the same password to differ")
	}
}
