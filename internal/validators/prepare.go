package validators

import (
	"context"

	"github.com/MKhiriev/ubuntu-pools/models"
)

// PrepareCreatePool fills the default settings of in and validates it.
func PrepareCreatePool(ctx context.Context, v Validator, in *models.CreatePoolInput) error {
	in.ApplyDefaults()
	return v.Validate(ctx, in)
}

// PrepareUpdatePool fills the inner settings defaults of a present settings
// object and validates in.
func PrepareUpdatePool(ctx context.Context, v Validator, in *models.UpdatePoolInput) error {
	in.ApplyDefaults()
	return v.Validate(ctx, in)
}

// PrepareCreateTransaction defaults the currency and validates in.
func PrepareCreateTransaction(ctx context.Context, v Validator, in *models.CreateTransactionInput) error {
	in.ApplyDefaults()
	return v.Validate(ctx, in)
}

// PrepareProfileUpdate validates in and rewrites a present phone number in
// E.164 form.
func PrepareProfileUpdate(ctx context.Context, v Validator, in *models.ProfileUpdate) error {
	if err := v.Validate(ctx, in); err != nil {
		return err
	}
	if in.Phone != nil && *in.Phone != "" {
		phone, err := NormalizePhone(*in.Phone)
		if err != nil {
			return err
		}
		in.Phone = &phone
	}
	return nil
}
