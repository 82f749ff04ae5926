package validators

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/MKhiriev/ubuntu-pools/models"
)

func (v *SchemaValidator) validateCreatePool(ctx context.Context, in models.CreatePoolInput, fields ...string) error {
	return validateFields(&in, []namedField{
		field(FieldName, &in.Name, validation.Required, validation.RuneLength(3, 100)),
		field(FieldDescription, &in.Description, validation.RuneLength(0, 1000)),
		field(FieldType, &in.Type, validation.Required, oneOf(models.PoolTypes)),
		field(FieldContributionAmount, &in.ContributionAmount, positive),
		field(FieldContributionSchedule, &in.ContributionSchedule, validation.Required),
		field(FieldMaxMembers, &in.MaxMembers, positive),
		field(FieldSettings, &in.Settings, validation.By(settingsRule)),
	}, fields...)
}

// validateUpdatePool applies the create bounds to whichever fields are
// present. An update without any field is rejected.
func (v *SchemaValidator) validateUpdatePool(ctx context.Context, in models.UpdatePoolInput, fields ...string) error {
	if len(fields) == 0 && in.IsEmpty() {
		return ErrNoFieldsToUpdate
	}

	return validateFields(&in, []namedField{
		field(FieldName, &in.Name, validation.NilOrNotEmpty, validation.RuneLength(3, 100)),
		field(FieldDescription, &in.Description, validation.RuneLength(0, 1000)),
		field(FieldType, &in.Type, oneOf(models.PoolTypes)),
		field(FieldContributionAmount, &in.ContributionAmount, positive),
		field(FieldContributionSchedule, &in.ContributionSchedule, validation.NilOrNotEmpty),
		field(FieldMaxMembers, &in.MaxMembers, positive),
		field(FieldSettings, &in.Settings, validation.By(settingsRule)),
	}, fields...)
}

func settingsRule(value any) error {
	s, ok := value.(*models.PoolSettingsInput)
	if !ok || s == nil {
		return nil
	}

	return validation.ValidateStruct(s,
		validation.Field(&s.LatePaymentGraceDays, validation.Min(0)),
		validation.Field(&s.LatePaymentPenaltyRate, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&s.MinimumTrustScore, validation.Min(0), validation.Max(1000)),
	)
}

func (v *SchemaValidator) validateCreateTransaction(ctx context.Context, in models.CreateTransactionInput, fields ...string) error {
	return validateFields(&in, []namedField{
		field(FieldPoolID, &in.PoolID, validation.Required, is.UUID),
		field(FieldType, &in.Type, validation.Required, oneOf(models.TransactionTypes)),
		field(FieldAmount, &in.Amount, positive),
		field(FieldCurrency, &in.Currency, validation.Required, validation.RuneLength(3, 3)),
		field(FieldDescription, &in.Description, validation.RuneLength(0, 500)),
		field(FieldReference, &in.Reference, validation.RuneLength(0, 100)),
	}, fields...)
}
