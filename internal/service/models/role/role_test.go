package role

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr error
	}{
		{in: "customer", want: RoleCustomer},
		{in: "admin", want: RoleAdmin},
		{in: "Admin", wantErr: ErrInvalidRole},
		{in: "", wantErr: ErrInvalidRole},
		{in: "manager", wantErr: ErrInvalidRole},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("ParseRole(%q) error = %v, want %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPrivileged(t *testing.T) {
	if !RoleAdmin.IsPrivileged() {
		t.Fatal("expected admin to be privileged")
	}
	if RoleCustomer.IsPrivileged() {
		t.Fatal("expected customer not to be privileged")
	}
	if Role("root").IsPrivileged() {
		t.Fatal("expected unknown role not to be privileged")
	}
}
