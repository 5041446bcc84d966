package validator

import "testing"

type intake struct {
	Phone string `validate:"required,phone"`
	Email string `validate:"omitempty,email"`
}

func TestPhoneTag(t *testing.T) {
	v := New()

	if err := v.Struct(intake{Phone: "9876543210"}); err != nil {
		t.Fatalf("expected valid phone, got %v", err)
	}
	if err := v.Struct(intake{Phone: "123"}); err == nil {
		t.Fatal("expected invalid phone to fail validation")
	}
	if err := v.Struct(intake{Phone: "9876543210", Email: "nope"}); err == nil {
		t.Fatal("expected invalid email to fail validation")
	}
}
