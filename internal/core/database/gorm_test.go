package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name, in, user, pass, want string
	}{
		{
			name: "jdbc url",
			in:   "jdbc:mysql://localhost:3306/clientra?useSSL=false&characterEncoding=utf8&serverTimezone=UTC",
			user: "root", pass: "pw",
			want: "root:pw@tcp(localhost:3306)/clientra?charset=utf8&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "url credentials",
			in:   "mysql://app:secret@db:3306/clientra",
			want: "app:secret@tcp(db:3306)/clientra?charset=utf8mb4&parseTime=true",
		},
		{
			name: "native dsn untouched",
			in:   "app:secret@tcp(db:3306)/clientra?parseTime=true",
			user: "root",
			want: "app:secret@tcp(db:3306)/clientra?parseTime=true",
		},
		{name: "empty", in: "  ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(localhost:3306)/clientra", maskDSN("root:pw@tcp(localhost:3306)/clientra"))
	assert.Equal(t, "tcp(localhost)/x", maskDSN("tcp(localhost)/x"))
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "sqlite"})
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}
