package services

import "testing"

func TestViewer_Actor(t *testing.T) {
	cases := []struct {
		name   string
		viewer Viewer
		want   string
	}{
		{"anonymous", Viewer{}, "Guest"},
		{"email only", Viewer{Email: "maria@example.com"}, "maria@example.com"},
		{"name and email", Viewer{Name: "Maria", Email: "maria@example.com"}, "Maria <maria@example.com>"},
		{"name without email stays anonymous", Viewer{Name: "Maria"}, "Guest"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.viewer.Actor(); got != tc.want {
				t.Fatalf("Actor() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestViewer_Anonymous(t *testing.T) {
	if !(Viewer{Name: "Maria"}).Anonymous() {
		t.Fatalf("a viewer without an email is anonymous")
	}
	if (Viewer{Email: "m@example.com"}).Anonymous() {
		t.Fatalf("a viewer with an email is not anonymous")
	}
}

func TestNormalizeIdentity(t *testing.T) {
	name, email := NormalizeIdentity("  maria kostas  ", "  Maria@Example.COM ")
	if name != "Maria Kostas" {
		t.Fatalf("name = %q", name)
	}
	if email != "maria@example.com" {
		t.Fatalf("email = %q", email)
	}

	name, email = NormalizeIdentity("", "")
	if name != "" || email != "" {
		t.Fatalf("empty inputs must stay empty: %q / %q", name, email)
	}
}
