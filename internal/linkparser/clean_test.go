package linkparser

import "testing"

func TestPurellCleaner(t *testing.T) {
	t.Parallel()

	clean := PurellCleaner(DefaultCleanFlags)

	tests := []struct {
		in   string
		want string
	}{
		{"HTTP://Example.COM:80/a/./b/../c", "http://example.com/a/c"},
		{"http://example.com//double//slash", "http://example.com/double/slash"},
		{"http://example.com/?b=2&a=1", "http://example.com/?a=1&b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := clean(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
