package literal

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Literal
		want bool
	}{
		{"same ints", MkInt(3), MkInt(3), true},
		{"different ints", MkInt(3), MkInt(4), false},
		{"different types never equal", MkInt(0), MkFloat(0), false},
		{"unit always equal", MkUnit(), MkUnit(), true},
		{"bools", MkBool(true), MkBool(true), true},
		{"bools differ", MkBool(true), MkBool(false), false},
		{"strings", MkString("a"), MkString("a"), true},
		{"chars", MkChar('x'), MkChar('x'), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	if Int.String() != "Int" {
		t.Errorf("Int.String() = %q, want %q", Int.String(), "Int")
	}
}
