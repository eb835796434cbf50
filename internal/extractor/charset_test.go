package extractor

import "testing"

func TestHeaderCharset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"text/html", ""},
		{"text/html; charset=utf-8", "utf-8"},
		{"text/html;CHARSET=Shift_JIS", "Shift_JIS"},
		{`text/html; charset="euc-kr"`, "euc-kr"},
		{"text/html; charset=", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := headerCharset(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMetaCharset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"none", "<html><head></head></html>", ""},
		{"html5", `<meta charset="gb2312">`, "gb2312"},
		{"unquoted", `<META CHARSET=big5>`, "big5"},
		{"http-equiv", `<meta http-equiv="content-type" content="text/html; charset=iso-8859-5">`, "iso-8859-5"},
		{"name first is skipped", `<meta name="x" content="charset=foo">`, ""},
		{"value first is skipped", `<meta value="charset=foo"><meta charset=utf-8>`, "utf-8"},
		{"non-ascii before meta", "\xff\xfe<meta charset=\"euc-jp\">", "euc-jp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := metaCharset([]byte(tt.body)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCleanCharset(t *testing.T) {
	t.Parallel()

	aliases := map[string]string{"cp1251": "windows-1251"}
	if got := cleanCharset(" CP1251 ", aliases); got != "windows-1251" {
		t.Errorf("expected windows-1251, got %q", got)
	}
	if got := cleanCharset("utf-8", aliases); got != "utf-8" {
		t.Errorf("expected utf-8, got %q", got)
	}
	if got := cleanCharset("  ", aliases); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
