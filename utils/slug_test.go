package utils

import "testing"

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		title string
		id    int
		want  string
	}{
		{"Dexter", 1405, "dexter-1405"},
		{"The Lord of the Rings: The Two Towers", 121, "the-lord-of-the-rings-the-two-towers-121"},
		{"WALL·E", 10681, "walle-10681"},
		{"  Spaced   Out  ", 7, "spaced-out-7"},
		{"Amélie", 194, "amelie-194"},
		{"", 42, "item-42"},
		{"!!!", 99, "item-99"},
	}
	for _, tc := range tests {
		if got := MakeSlug(tc.title, tc.id); got != tc.want {
			t.Errorf("MakeSlug(%q, %d) = %q, want %q", tc.title, tc.id, got, tc.want)
		}
	}
}

func TestSlugID(t *testing.T) {
	tests := []struct {
		slug string
		want int
		ok   bool
	}{
		{"dexter-1405", 1405, true},
		{"1405-dexter", 1405, true},
		{"1405", 1405, true},
		{"item-42", 42, true},
		{"not-a-slug", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"0", 0, false},
	}
	for _, tc := range tests {
		got, ok := SlugID(tc.slug)
		if got != tc.want || ok != tc.ok {
			t.Errorf("SlugID(%q) = (%d, %v), want (%d, %v)", tc.slug, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSlugRoundTrip(t *testing.T) {
	titles := []string{"Dexter", "映画", "The 4400", "9", "Se7en", "M*A*S*H"}
	for _, title := range titles {
		for _, id := range []int{1, 42, 1405, 987654} {
			slug := MakeSlug(title, id)
			got, ok := SlugID(slug)
			if !ok || got != id {
				t.Errorf("round trip failed for (%q, %d): slug=%q got=(%d, %v)", title, id, slug, got, ok)
			}
		}
	}
}
