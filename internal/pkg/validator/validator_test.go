package validator

import (
	"errors"
	"testing"

	gvalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorInitialization(t *testing.T) {
	t.Run("should initialize validator instance", func(t *testing.T) {
		assert.NotNil(t, validator)
	})

	t.Run("should work correctly after initialization", func(t *testing.T) {
		type SimpleStruct struct {
			Name string `validate:"required"`
		}

		err := validator.Struct(SimpleStruct{Name: "test"})
		assert.NoError(t, err)
	})
}

func TestFormatError(t *testing.T) {
	t.Run("should transform validation errors to formatted errors", func(t *testing.T) {
		testValidator := gvalidator.New()

		type TestStruct struct {
			Name string `validate:"required"`
		}

		err := testValidator.Struct(TestStruct{})
		require.Error(t, err)

		formattedErr := formatError(err)

		assert.ErrorIs(t, formattedErr, ErrValidationFailed)
		assert.Contains(t, formattedErr.Error(), "'Name': value '' does not meet the requirements for the 'required' validation")
	})

	t.Run("should return original error when not validation error", func(t *testing.T) {
		originalErr := errors.New("database connection failed")
		formattedErr := formatError(originalErr)

		assert.Equal(t, originalErr, formattedErr)
	})
}

func TestValidate(t *testing.T) {
	t.Run("should pass when all required fields are present", func(t *testing.T) {
		type PackPayload struct {
			PackID int64  `validate:"required"`
			Buyer  string `validate:"required"`
		}

		err := Validate(PackPayload{PackID: 12, Buyer: "0xb0b"})
		assert.NoError(t, err)
	})

	t.Run("should fail when required field is empty", func(t *testing.T) {
		type PackPayload struct {
			PackID int64  `validate:"required"`
			Buyer  string `validate:"required"`
		}

		err := Validate(PackPayload{PackID: 12})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "'Buyer': value '' does not meet the requirements for the 'required' validation")
	})

	t.Run("should fail when url format is invalid", func(t *testing.T) {
		type Endpoint struct {
			URL string `validate:"required,url"`
		}

		err := Validate(Endpoint{URL: "not-a-url"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "'URL': value 'not-a-url' does not meet the requirements for the 'url' validation")
	})

	t.Run("should fail when numeric value is below minimum", func(t *testing.T) {
		type Settings struct {
			ItemCount int `validate:"gt=0"`
		}

		err := Validate(Settings{ItemCount: 0})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'ItemCount': value '0' does not meet the requirements for the 'gt' validation")
	})

	t.Run("should report every failing field", func(t *testing.T) {
		type Settings struct {
			Endpoint  string `validate:"required,url"`
			ItemCount int    `validate:"gt=0"`
		}

		err := Validate(Settings{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)

		errStr := err.Error()
		assert.Contains(t, errStr, "'Endpoint'")
		assert.Contains(t, errStr, "'ItemCount'")
	})

	t.Run("should fail when input is not struct", func(t *testing.T) {
		for _, input := range []any{"test string", 42, nil, []string{"test"}} {
			err := Validate(input)
			assert.Error(t, err)
		}
	})
}
