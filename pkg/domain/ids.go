// Package domain defines typed identities shared across modules.
package domain

import "github.com/google/uuid"

// UserID identifies an account. It wraps a UUID so signatures can't confuse
// user references with record surrogate IDs.
type UserID uuid.UUID

// NewUserID returns a freshly generated user ID.
func NewUserID() UserID {
	return UserID(uuid.New())
}

// ParseUserID parses the canonical string form.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

func (u UserID) String() string {
	return uuid.UUID(u).String()
}

// IsZero reports whether the ID is unset.
func (u UserID) IsZero() bool {
	return u == UserID{}
}

// MarshalText renders the canonical UUID form for JSON and map keys.
func (u UserID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(u).String()), nil
}

// UnmarshalText accepts the canonical UUID form.
func (u *UserID) UnmarshalText(b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*u = UserID(parsed)
	return nil
}

// RecordID is the surrogate identity of a stored record. Records also carry a
// human-readable reference number; handlers accept either form.
type RecordID uuid.UUID

// NewRecordID returns a freshly generated record ID.
func NewRecordID() RecordID {
	return RecordID(uuid.New())
}

// ParseRecordID parses the canonical string form.
func ParseRecordID(s string) (RecordID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return RecordID{}, err
	}
	return RecordID(u), nil
}

func (r RecordID) String() string {
	return uuid.UUID(r).String()
}

// IsZero reports whether the ID is unset.
func (r RecordID) IsZero() bool {
	return r == RecordID{}
}

// MarshalText renders the canonical UUID form.
func (r RecordID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(r).String()), nil
}

// UnmarshalText accepts the canonical UUID form.
func (r *RecordID) UnmarshalText(b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*r = RecordID(parsed)
	return nil
}
