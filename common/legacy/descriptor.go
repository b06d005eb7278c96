package legacy

import (
	"strings"

	"github.com/samber/mo"
)

// SecretMask is the sentinel a client echoes back instead of the real secret.
// It must never reach the driver; the boundary substitutes the stored secret
// before a descriptor is used.
const SecretMask = "********"

// Descriptor is a validated, immutable set of legacy database credentials.
// UserID and Secret distinguish "absent" from "empty string": an absent field
// is omitted from the connection string, an empty one is rendered as KEY=.
type Descriptor struct {
	DSN    string
	UserID mo.Option[string]
	Secret mo.Option[string]
	Driver mo.Option[string]
}

// NewDescriptor builds a descriptor with all credential fields present.
func NewDescriptor(dsn, uid, pwd, driver string) Descriptor {
	d := Descriptor{
		DSN:    dsn,
		UserID: mo.Some(uid),
		Secret: mo.Some(pwd),
	}
	if driver != "" {
		d.Driver = mo.Some(driver)
	}
	return d
}

// ConnString renders the driver connection string as semicolon-delimited
// KEY=value pairs in the order DRIVER, DSN, UID, PWD.
func (d Descriptor) ConnString() (string, error) {
	return d.render(false)
}

// Redacted renders the connection string with the secret masked. For logging
// only; never usable to connect.
func (d Descriptor) Redacted() string {
	s, err := d.render(true)
	if err != nil {
		return ""
	}
	return s
}

func (d Descriptor) render(redact bool) (string, error) {
	if strings.TrimSpace(d.DSN) == "" {
		return "", ErrEmptyDataSourceName
	}

	parts := make([]string, 0, 4)
	if driver, ok := d.Driver.Get(); ok {
		parts = append(parts, "DRIVER="+driver)
	}
	parts = append(parts, "DSN="+d.DSN)
	if uid, ok := d.UserID.Get(); ok {
		parts = append(parts, "UID="+uid)
	}
	if pwd, ok := d.Secret.Get(); ok {
		if redact {
			pwd = SecretMask
		}
		parts = append(parts, "PWD="+pwd)
	}

	return strings.Join(parts, ";"), nil
}

// ResolveSecret applies the masked-secret convention at the boundary: when the
// submitted secret is the sentinel and a stored descriptor with the same DSN
// and user exists, the stored secret is substituted. Otherwise the submitted
// value is kept as-is.
func ResolveSecret(submitted Descriptor, stored *Descriptor) Descriptor {
	secret, ok := submitted.Secret.Get()
	if !ok || secret != SecretMask {
		return submitted
	}
	if stored == nil || stored.DSN != submitted.DSN {
		return submitted
	}
	if stored.UserID.OrElse("") != submitted.UserID.OrElse("") {
		return submitted
	}

	submitted.Secret = stored.Secret
	return submitted
}
