package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "reviews/rev-1/report.txt", want: "reviews/rev-1/report.txt"},
		{name: "simple prefix", prefix: "root", key: "reviews/rev-1/report.txt", want: "root/reviews/rev-1/report.txt"},
		{name: "prefix trailing slash", prefix: "root/", key: "reviews/rev-1/report.txt", want: "root/reviews/rev-1/report.txt"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/reviews/rev-1/report.txt", want: "root/reviews/rev-1/report.txt"},
		{name: "nested prefix", prefix: "root/sub", key: "reviews/rev-1/report.txt", want: "root/sub/reviews/rev-1/report.txt"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}
