package kernel

import "strconv"

// UserID is the numeric primary key of a user row.
type UserID int64

func (u UserID) String() string { return strconv.FormatInt(int64(u), 10) }
func (u UserID) IsZero() bool   { return u == 0 }

// ParseUserID parses a decimal path parameter.
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidID().WithDetail("id", s)
	}
	return UserID(n), nil
}

// OTPID is the numeric primary key of an OTP row.
type OTPID int64

func (o OTPID) String() string { return strconv.FormatInt(int64(o), 10) }
