package identity

import (
	"testing"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_Valid(t *testing.T) {
	user, err := NewUser("  Anna.Miller@Example.COM ", "secret1234", "Anna", "Miller", RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, "anna.miller@example.com", user.Email)
	assert.Equal(t, "Anna Miller", user.FullName())
	assert.Equal(t, RoleAdmin, user.Role)
	assert.True(t, user.Active)
	assert.True(t, user.IsAdmin())
	assert.True(t, user.HourlyRate.Equal(DefaultHourlyRate))
	assert.NotEqual(t, "secret1234", user.PasswordHash)
	assert.True(t, user.VerifyPassword("secret1234"))
	assert.False(t, user.VerifyPassword("wrong-password1"))
}

func TestNewUser_InvalidEmail(t *testing.T) {
	for _, email := range []string{"", "not-an-email", "missing@tld", "@example.com"} {
		_, err := NewUser(email, "secret1234", "Anna", "Miller", RoleCoworker)
		require.Error(t, err, "email %q", email)
		assertCode(t, err, "INVALID_EMAIL")
	}
}

func TestNewUser_InvalidRole(t *testing.T) {
	_, err := NewUser("anna@example.com", "secret1234", "Anna", "Miller", Role("MANAGER"))
	require.Error(t, err)
	assertCode(t, err, "INVALID_ROLE")
}

func TestNewUser_MissingName(t *testing.T) {
	_, err := NewUser("anna@example.com", "secret1234", "   ", "Miller", RoleCoworker)
	require.Error(t, err)
	assertCode(t, err, "INVALID_NAME")
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "secret1234", false},
		{"empty", "", true},
		{"too short", "abc1", true},
		{"letters only", "onlyletters", true},
		{"digits only", "1234567890", true},
		{"exactly eight", "abcdefg1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCoworker_Profile(t *testing.T) {
	user, err := NewCoworker("ben@example.com", "secret1234", "Ben", "Clark", " Massage Therapy ", decimal.NewFromInt(40))
	require.NoError(t, err)

	assert.Equal(t, RoleCoworker, user.Role)
	assert.Equal(t, "Massage Therapy", user.Specialization)
	assert.True(t, user.HourlyRate.Equal(decimal.NewFromInt(40)))
}

func TestNewCoworker_DefaultRateWhenZero(t *testing.T) {
	user, err := NewCoworker("ben@example.com", "secret1234", "Ben", "Clark", "", decimal.Zero)
	require.NoError(t, err)

	assert.True(t, user.HourlyRate.Equal(DefaultHourlyRate))
}

func TestUser_ActivateDeactivate(t *testing.T) {
	user, err := NewUser("anna@example.com", "secret1234", "Anna", "Miller", RoleCoworker)
	require.NoError(t, err)

	user.Deactivate()
	assert.False(t, user.Active)

	user.Activate()
	assert.True(t, user.Active)
}

func TestUser_ChangeRole(t *testing.T) {
	user, err := NewUser("anna@example.com", "secret1234", "Anna", "Miller", RoleCoworker)
	require.NoError(t, err)

	require.NoError(t, user.ChangeRole(RoleAdmin))
	assert.True(t, user.IsAdmin())

	err = user.ChangeRole(Role("SUPERUSER"))
	require.Error(t, err)
	assert.True(t, user.IsAdmin(), "role unchanged after invalid input")
}

func TestUser_UpdateProfile(t *testing.T) {
	user, err := NewCoworker("ben@example.com", "secret1234", "Ben", "Clark", "Massage", decimal.NewFromInt(40))
	require.NoError(t, err)

	require.NoError(t, user.UpdateProfile("Benjamin", "Clarke", "Physiotherapy", decimal.NewFromInt(55)))
	assert.Equal(t, "Benjamin Clarke", user.FullName())
	assert.Equal(t, "Physiotherapy", user.Specialization)
	assert.True(t, user.HourlyRate.Equal(decimal.NewFromInt(55)))

	err = user.UpdateProfile("", "Clarke", "", decimal.Zero)
	assertCode(t, err, "INVALID_NAME")

	err = user.UpdateProfile("Ben", "Clarke", "", decimal.NewFromInt(-5))
	assertCode(t, err, "INVALID_RATE")
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("anna@example.com", "secret1234", "Anna", "Miller", RoleCoworker)
	require.NoError(t, err)

	err = user.ChangePassword("wrong-password1", "newsecret99")
	assertCode(t, err, "INVALID_PASSWORD")

	require.NoError(t, user.ChangePassword("secret1234", "newsecret99"))
	assert.True(t, user.VerifyPassword("newsecret99"))
	assert.False(t, user.VerifyPassword("secret1234"))
}

func TestUser_SetPassword_ValidatesStrength(t *testing.T) {
	user, err := NewUser("anna@example.com", "secret1234", "Anna", "Miller", RoleCoworker)
	require.NoError(t, err)

	err = user.SetPassword("short1")
	require.Error(t, err)
	assert.True(t, user.VerifyPassword("secret1234"), "hash untouched on rejection")
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
