package service

import "testing"

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := generateOTP()
		if err != nil {
			t.Fatalf("generateOTP returned error: %v", err)
		}
		if !isOTP(otp) {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
	}
}

func TestIsOTP(t *testing.T) {
	cases := map[string]bool{
		"123456":  true,
		"000001":  true,
		"12345":   false,
		"1234567": false,
		"12a456":  false,
		"":        false,
	}
	for in, want := range cases {
		if got := isOTP(in); got != want {
			t.Fatalf("isOTP(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHashToken(t *testing.T) {
	a := hashToken("abc")
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %q", a)
	}
	if a != hashToken("abc") || a == hashToken("abd") {
		t.Fatalf("hashToken must be deterministic and input sensitive")
	}
}
