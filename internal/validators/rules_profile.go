package validators

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"

	"github.com/MKhiriev/ubuntu-pools/models"
)

// DefaultPhoneRegion is assumed for numbers given without a country code.
const DefaultPhoneRegion = "ZA"

// NormalizePhone parses raw in [DefaultPhoneRegion] and returns it in E.164
// form, e.g. "082 555 1234" becomes "+27825551234".
func NormalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPhone, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

var phoneRule = validation.By(func(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := NormalizePhone(s)
	return err
})

func (v *SchemaValidator) validateProfileUpdate(ctx context.Context, in models.ProfileUpdate, fields ...string) error {
	return validateFields(&in, []namedField{
		field(FieldName, &in.Name, validation.NilOrNotEmpty, validation.RuneLength(1, 100)),
		field(FieldPhone, &in.Phone, phoneRule),
		field(FieldAvatarURL, &in.AvatarURL, is.URL),
	}, fields...)
}

func (v *SchemaValidator) validateCredentials(ctx context.Context, in models.Credentials, fields ...string) error {
	return validateFields(&in, []namedField{
		field(FieldEmail, &in.Email, validation.Required, is.Email),
		field(FieldPassword, &in.Password, validation.Required),
	}, fields...)
}

// validateSignUp also enforces the backend's password policy so that a weak
// password fails before any network call.
func (v *SchemaValidator) validateSignUp(ctx context.Context, in models.SignUpInput, fields ...string) error {
	return validateFields(&in, []namedField{
		field(FieldEmail, &in.Email, validation.Required, is.Email),
		field(FieldPassword, &in.Password, validation.Required, validation.Length(6, 72)),
		field(FieldName, &in.Name, validation.Required, validation.RuneLength(1, 100)),
	}, fields...)
}
