package legacy

import (
	"errors"
	"strings"
	"testing"

	"github.com/samber/mo"
)

func TestConnString(t *testing.T) {
	tests := []struct {
		name       string
		descriptor Descriptor
		expected   string
		expectErr  error
	}{
		{
			name:       "all fields",
			descriptor: NewDescriptor("contabil", "admin", "s3cret", "SQL Anywhere 17"),
			expected:   "DRIVER=SQL Anywhere 17;DSN=contabil;UID=admin;PWD=s3cret",
		},
		{
			name:       "no driver",
			descriptor: NewDescriptor("contabil", "admin", "s3cret", ""),
			expected:   "DSN=contabil;UID=admin;PWD=s3cret",
		},
		{
			name:       "empty secret still rendered",
			descriptor: NewDescriptor("contabil", "admin", "", ""),
			expected:   "DSN=contabil;UID=admin;PWD=",
		},
		{
			name: "absent credentials omitted",
			descriptor: Descriptor{
				DSN: "contabil",
			},
			expected: "DSN=contabil",
		},
		{
			name: "absent secret only",
			descriptor: Descriptor{
				DSN:    "contabil",
				UserID: mo.Some("admin"),
			},
			expected: "DSN=contabil;UID=admin",
		},
		{
			name:       "empty dsn",
			descriptor: NewDescriptor("", "admin", "s3cret", ""),
			expectErr:  ErrEmptyDataSourceName,
		},
		{
			name:       "whitespace dsn",
			descriptor: NewDescriptor("   ", "admin", "s3cret", ""),
			expectErr:  ErrEmptyDataSourceName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.descriptor.ConnString()
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected %v, got %v", tt.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	d := NewDescriptor("contabil", "admin", "s3cret", "")

	redacted := d.Redacted()
	if strings.Contains(redacted, "s3cret") {
		t.Errorf("redacted string leaks the secret: %q", redacted)
	}
	if !strings.Contains(redacted, "PWD="+SecretMask) {
		t.Errorf("expected masked PWD in %q", redacted)
	}

	// A broken descriptor redacts to nothing rather than panicking.
	if got := (Descriptor{}).Redacted(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestResolveSecret(t *testing.T) {
	stored := NewDescriptor("contabil", "admin", "s3cret", "")

	tests := []struct {
		name      string
		submitted Descriptor
		stored    *Descriptor
		expected  string
	}{
		{
			name:      "mask substitutes stored secret",
			submitted: NewDescriptor("contabil", "admin", SecretMask, ""),
			stored:    &stored,
			expected:  "s3cret",
		},
		{
			name:      "plain secret kept",
			submitted: NewDescriptor("contabil", "admin", "newpass", ""),
			stored:    &stored,
			expected:  "newpass",
		},
		{
			name:      "mask without stored row kept as-is",
			submitted: NewDescriptor("contabil", "admin", SecretMask, ""),
			stored:    nil,
			expected:  SecretMask,
		},
		{
			name:      "mask with different dsn kept as-is",
			submitted: NewDescriptor("other", "admin", SecretMask, ""),
			stored:    &stored,
			expected:  SecretMask,
		},
		{
			name:      "mask with different user kept as-is",
			submitted: NewDescriptor("contabil", "other", SecretMask, ""),
			stored:    &stored,
			expected:  SecretMask,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := ResolveSecret(tt.submitted, tt.stored)
			if got := resolved.Secret.OrElse(""); got != tt.expected {
				t.Errorf("expected secret %q, got %q", tt.expected, got)
			}
		})
	}
}
