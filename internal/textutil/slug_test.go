package textutil

import "testing"

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Rock & Roll - Pt. 1", "rock_and_roll_pt_1"},
		{"Intro", "intro"},
		{"Don't Stop Me Now!", "dont_stop_me_now"},
		{"Twenty-One", "twenty_one"},
		{"Ça Plane Pour Moi", "ça_plane_pour_moi"},
		{"snake_case stays", "snake_case_stays"},
		{"  padded  ", "padded"},
		{"A  -  B", "a_b"},
		{"(((...)))", ""},
		{"ΑΒΓ 123", "αβγ_123"},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Fatalf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
