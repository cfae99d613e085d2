package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-admin-boilerplate/internal/domain"
)

func testPolicy() Policy {
	return Policy{
		MinChars:        12,
		MaxChars:        255,
		RequireLower:    true,
		RequireUpper:    true,
		RequireNumerals: true,
		RequireSpecial:  true,
		AllowedSpecials: "!#$%&()*+,-./:;<=>?@^_{|}~",
	}
}

func TestPolicyValidateOK(t *testing.T) {
	assert.NoError(t, testPolicy().Validate("TestPassword123!"))
}

func TestPolicyValidateCollectsAllBrokenRules(t *testing.T) {
	err := testPolicy().Validate("short")
	require.Error(t, err)

	var pv *domain.PolicyViolation
	require.True(t, errors.As(err, &pv))
	// 短 + 无数字 + 无大写 + 无特殊符号
	assert.Len(t, pv.Rules, 4)
}

func TestPolicyValidateSingleRules(t *testing.T) {
	tests := []struct {
		name     string
		pw       string
		fragment string
	}{
		{"missing number", "TestPassword!!!!", "at least one number"},
		{"missing upper", "testpassword123!", "upper case"},
		{"missing lower", "TESTPASSWORD123!", "lower case"},
		{"missing special", "TestPassword1234", "special symbol"},
		{"too long", strings.Repeat("Aa1!", 100), "too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testPolicy().Validate(tt.pw)
			require.Error(t, err)
			var pv *domain.PolicyViolation
			require.True(t, errors.As(err, &pv))
			require.Len(t, pv.Rules, 1)
			assert.Contains(t, pv.Rules[0], tt.fragment)
		})
	}
}

func TestPolicyDisabledRules(t *testing.T) {
	p := Policy{MinChars: 4}
	assert.NoError(t, p.Validate("abcd"), "with all class rules off only length applies")
}
